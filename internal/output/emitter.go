package output

import "github.com/m-mizutani/jirasearch/pkg/models"

// Emitter receives a batch of rows from adapters.
type Emitter interface {
	Emit(rows []models.Row) error
}

// Buffer keeps batches of one invocation until they are committed to Renderer. Rows in Buffer are
// discarded if the invocation fails.
type Buffer struct {
	batches [][]models.Row
}

// NewBuffer is constructor of Buffer
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Emit appends a batch. Empty batch is ignored.
func (x *Buffer) Emit(rows []models.Row) error {
	if len(rows) == 0 {
		return nil
	}
	x.batches = append(x.batches, rows)
	return nil
}

// Batches returns number of emitted batches
func (x *Buffer) Batches() int { return len(x.batches) }

// Rows returns all rows in emitted order
func (x *Buffer) Rows() []models.Row {
	var rows []models.Row
	for _, batch := range x.batches {
		rows = append(rows, batch...)
	}
	return rows
}
