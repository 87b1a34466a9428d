package main

import (
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

type task struct {
	id      uuid.UUID
	title   string
	note    string
	starred bool
}

// taskModel is the list model: all tasks and the ones matching the filter,
// best match first.
type taskModel struct {
	tasks   []*task
	visible []*task
	filter  string
}

func newTaskModel(titles ...string) *taskModel {
	m := &taskModel{}
	for _, title := range titles {
		title, note, _ := strings.Cut(title, "|")
		m.tasks = append(m.tasks, &task{id: uuid.New(), title: title, note: note})
	}
	m.refilter()
	return m
}

func (m *taskModel) Len() int {
	return len(m.visible)
}

func (m *taskModel) At(index int) *task {
	if index < 0 || index >= len(m.visible) {
		return nil
	}
	return m.visible[index]
}

func (m *taskModel) SetFilter(filter string) {
	m.filter = filter
	m.refilter()
}

func (m *taskModel) refilter() {
	m.visible = m.visible[:0]
	if m.filter == "" {
		m.visible = append(m.visible, m.tasks...)
		return
	}
	ranks := make(map[uuid.UUID]int)
	for _, t := range m.tasks {
		if rank := fuzzy.RankMatchNormalizedFold(m.filter, t.title); rank >= 0 {
			ranks[t.id] = rank
			m.visible = append(m.visible, t)
		}
	}
	slices.SortStableFunc(m.visible, func(a, b *task) int {
		return ranks[a.id] - ranks[b.id]
	})
}

// Remove deletes the visible task at index.
func (m *taskModel) Remove(index int) *task {
	t := m.At(index)
	if t == nil {
		return nil
	}
	m.tasks = slices.DeleteFunc(m.tasks, func(other *task) bool { return other == t })
	m.visible = slices.Delete(m.visible, index, index+1)
	return t
}

// Move moves a visible task. The visible tasks keep the slots they occupy
// among all tasks, so hidden tasks stay in place.
func (m *taskModel) Move(from, to int) {
	if from == to || m.At(from) == nil || m.At(to) == nil {
		return
	}
	t := m.visible[from]
	m.visible = slices.Delete(m.visible, from, from+1)
	m.visible = slices.Insert(m.visible, to, t)

	var slots []int
	for i, other := range m.tasks {
		if slices.Contains(m.visible, other) {
			slots = append(slots, i)
		}
	}
	for k, slot := range slots {
		m.tasks[slot] = m.visible[k]
	}
}
