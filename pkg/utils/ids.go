package utils

import "github.com/google/uuid"

func NewID() uuid.UUID { return uuid.New() }

func ParseID(s string) (uuid.UUID, error) { return uuid.Parse(s) }
