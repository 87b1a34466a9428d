package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titles(tasks []*task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.title)
	}
	return out
}

func TestNewTaskModelSplitsNotes(t *testing.T) {
	m := newTaskModel("Buy milk|Two bottles.", "Call mum")
	require.Equal(t, 2, m.Len())
	assert.Equal(t, "Buy milk", m.At(0).title)
	assert.Equal(t, "Two bottles.", m.At(0).note)
	assert.Empty(t, m.At(1).note)
	assert.NotEqual(t, m.At(0).id, m.At(1).id)
	assert.Nil(t, m.At(2))
}

func TestFilterRanksBestMatchFirst(t *testing.T) {
	m := newTaskModel("Book dentist appointment", "Clean the garage", "Return library books")
	m.SetFilter("book")
	assert.Equal(t, []string{"Return library books", "Book dentist appointment"}, titles(m.visible))

	m.SetFilter("")
	assert.Equal(t, 3, m.Len())
}

func TestMoveKeepsHiddenTasksInPlace(t *testing.T) {
	m := newTaskModel("one", "two", "three", "four")
	m.Move(0, 2)
	assert.Equal(t, []string{"two", "three", "one", "four"}, titles(m.tasks))

	m = newTaskModel("one", "two", "three", "four")
	m.SetFilter("o")
	require.Equal(t, []string{"one", "two", "four"}, titles(m.visible))
	m.Move(2, 0)
	assert.Equal(t, []string{"four", "one", "two"}, titles(m.visible))
	assert.Equal(t, []string{"four", "one", "three", "two"}, titles(m.tasks))

	m.Move(0, 5)
	assert.Equal(t, []string{"four", "one", "two"}, titles(m.visible))
}

func TestRemove(t *testing.T) {
	m := newTaskModel("one", "two", "three", "four")
	m.SetFilter("o")
	removed := m.Remove(1)
	require.NotNil(t, removed)
	assert.Equal(t, "two", removed.title)
	assert.Equal(t, []string{"one", "three", "four"}, titles(m.tasks))
	assert.Equal(t, []string{"one", "four"}, titles(m.visible))
	assert.Nil(t, m.Remove(7))
}
