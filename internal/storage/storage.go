package storage

import "github.com/NaniDAO/coinchan-sub010/internal/model"

// Storage defines a sink for confirmed-operation activity records.
type Storage interface {
	PutActivityBatch(records []model.ActivityRecord) error
}
