// file: internals/features/scheduling/reservations/service/tx.go
package service

import (
	"gorm.io/gorm"

	"acainfo_backend/internals/features/scheduling/reservations/model"
)

// CreateTx runs the seat-claim rule chain inside an existing transaction, for
// callers that bundle reservation creation with their own writes (enrollment
// approval, session switch helpers).
func (s *Service) CreateTx(tx *gorm.DB, in CreateInput) (*model.ReservationModel, error) {
	return s.createLocked(tx, in)
}
