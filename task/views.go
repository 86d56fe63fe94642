package task

import (
	"sort"
	"time"
)

// IndexItem is one row of the flat index projection.
type IndexItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	State     State     `json:"state"`
	Archived  bool      `json:"archived"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IndexView is a compact projection of every task in the store.
type IndexView struct {
	GeneratedAt time.Time   `json:"generated_at"`
	Items       []IndexItem `json:"items"`
}

// Board column names. Archived tasks land in ColumnArchived regardless of
// their underlying state.
const (
	ColumnTodo     = "TODO"
	ColumnActive   = "ACTIVE"
	ColumnDone     = "DONE"
	ColumnArchived = "ARCHIVED"
)

// BoardItem is one card on the board projection.
type BoardItem struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	State      State      `json:"state"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
}

// BoardColumn is one column of the board projection.
type BoardColumn struct {
	Name  string      `json:"name"`
	Items []BoardItem `json:"items"`
}

// BoardView is a kanban-style projection grouping tasks by state, with a
// dedicated column for archived tasks.
type BoardView struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Columns     []BoardColumn `json:"columns"`
}

// TimelineView is the paginated event history of a single task.
type TimelineView struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`
	Events      []Event   `json:"events"`
}

// List returns every task's snapshot, sorted by updated_at descending.
// Malformed or partially written task directories are skipped rather than
// failing the whole listing.
func (s *Store) List(includeArchived bool) ([]Task, error) {
	taskIDs, err := s.taskIDs()
	if err != nil {
		return nil, err
	}

	tasks := make([]Task, 0, len(taskIDs))
	for _, id := range taskIDs {
		snapshot, err := s.readSnapshot(id)
		if err != nil {
			continue
		}
		if !includeArchived && snapshot.Archived() {
			continue
		}
		tasks = append(tasks, *snapshot)
	}

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].UpdatedAt.After(tasks[j].UpdatedAt)
	})
	return tasks, nil
}

// IndexView returns the flat index projection over all tasks, archived
// included.
func (s *Store) IndexView() (*IndexView, error) {
	tasks, err := s.List(true)
	if err != nil {
		return nil, err
	}

	items := make([]IndexItem, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, IndexItem{
			ID:        t.ID,
			Title:     t.Title,
			State:     t.State,
			Archived:  t.Archived(),
			UpdatedAt: t.UpdatedAt,
		})
	}
	return &IndexView{GeneratedAt: s.now().UTC(), Items: items}, nil
}

// BoardView returns the board projection. Every archived task appears exactly
// once, in the ARCHIVED column only.
func (s *Store) BoardView() (*BoardView, error) {
	tasks, err := s.List(true)
	if err != nil {
		return nil, err
	}

	columns := []BoardColumn{
		{Name: ColumnTodo, Items: []BoardItem{}},
		{Name: ColumnActive, Items: []BoardItem{}},
		{Name: ColumnDone, Items: []BoardItem{}},
		{Name: ColumnArchived, Items: []BoardItem{}},
	}
	columnIndex := map[State]int{StateTodo: 0, StateActive: 1, StateDone: 2}

	for _, t := range tasks {
		item := BoardItem{
			ID:         t.ID,
			Title:      t.Title,
			State:      t.State,
			UpdatedAt:  t.UpdatedAt,
			ArchivedAt: t.ArchivedAt,
		}
		if t.Archived() {
			columns[3].Items = append(columns[3].Items, item)
			continue
		}
		index, ok := columnIndex[t.State]
		if !ok {
			// Unknown state in a snapshot written by a newer schema;
			// surface it rather than dropping the task.
			index = 0
		}
		columns[index].Items = append(columns[index].Items, item)
	}

	return &BoardView{GeneratedAt: s.now().UTC(), Columns: columns}, nil
}

// TimelineView returns the paginated event history for one task. It fails
// with ErrTaskNotFound if the task has no log.
func (s *Store) TimelineView(id string, opts PageOptions) (*TimelineView, error) {
	resolved, err := s.Resolve(id)
	if err != nil {
		return nil, err
	}
	events, err := s.ReadLog(resolved, opts)
	if err != nil {
		return nil, err
	}
	return &TimelineView{ID: resolved, GeneratedAt: s.now().UTC(), Events: events}, nil
}
