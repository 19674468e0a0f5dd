package course

import (
	"strings"

	"github.com/google/uuid"
)

// Course は研修コースを表します。
// IsNew は永続化前のコースでのみ true になります。
type Course struct {
	ID    uuid.UUID
	Title string
	IsNew bool
}

// New は未保存のコースを生成します。
func New(title string) (*Course, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return nil, ErrInvalidTitle
	}
	return &Course{ID: uuid.New(), Title: trimmed, IsNew: true}, nil
}

// Clone はコースのコピーを返します。
func (c *Course) Clone() *Course {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}
