package postgres

import (
	"context"
	"fmt"

	"github.com/prakritipath/backend/internal/repository"
	"github.com/prakritipath/backend/internal/revocation"
)

type Storage struct {
	db DBTX
}

func NewStorage(db DBTX) repository.Storage {
	return &Storage{db: db}
}

func (s *Storage) Patient() repository.PatientRepo {
	return &PatientRepo{DB: s.db}
}

func (s *Storage) Doctor() repository.DoctorRepo {
	return &DoctorRepo{DB: s.db}
}

func (s *Storage) Consultation() repository.ConsultationRepo {
	return &ConsultationRepo{DB: s.db}
}

func (s *Storage) Revocation() revocation.Store {
	return &RevocationStore{DB: s.db}
}

func (s *Storage) InTx(ctx context.Context, fn func(repository.Storage) error) (err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("db tx error: %w", err)
	}

	defer func() {
		switch err {
		case nil:
			err = tx.Commit(ctx)
		default:
			_ = tx.Rollback(ctx)
		}
	}()

	err = fn(NewStorage(tx))

	return err
}
