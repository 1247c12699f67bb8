package subscribers

import (
	"fmt"

	"github.com/maquinsa/site-core/internal/modules/newsletter/store"
)

type Service struct {
	store store.Store
}

func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// List returns one page of subscriber rows plus the total matching the
// same filter.
func (s *Service) List(f store.Filter, offset, limit int) ([]Row, int64, error) {
	subs, total, err := s.store.List(f, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list subscribers: %w", err)
	}
	rows := make([]Row, 0, len(subs))
	for i := range subs {
		rows = append(rows, toRow(&subs[i]))
	}
	return rows, total, nil
}
