package store

import (
	"motk/internal/entity"
	"motk/internal/services"
	"motk/internal/sheet"
)

// OperationResult is the structured outcome of one entity operation. Failed
// operations carry the failure class and a descriptive message instead of a
// raw error; Conflicts is populated when a compare-and-swap update lost to a
// concurrent writer.
type OperationResult struct {
	Success   bool             `json:"success"`
	Data      entity.Fields    `json:"data,omitempty"`
	Failure   services.Failure `json:"failure,omitempty"`
	Error     string           `json:"error,omitempty"`
	Conflicts []sheet.Conflict `json:"conflicts,omitempty"`
}

// ListResult is the structured outcome of a query. Total counts every match
// before offset/limit slicing so callers can page.
type ListResult struct {
	Success bool             `json:"success"`
	Data    []entity.Fields  `json:"data"`
	Total   int              `json:"total"`
	Offset  int              `json:"offset"`
	Limit   int              `json:"limit"`
	Failure services.Failure `json:"failure,omitempty"`
	Error   string           `json:"error,omitempty"`
}

func succeeded(data entity.Fields) OperationResult {
	return OperationResult{Success: true, Data: data}
}

func failed(err error) OperationResult {
	return OperationResult{Failure: services.Classify(err), Error: err.Error()}
}

func conflicted(err error, conflicts []sheet.Conflict) OperationResult {
	result := failed(err)
	result.Conflicts = conflicts
	return result
}

func failedList(err error) ListResult {
	return ListResult{Data: []entity.Fields{}, Failure: services.Classify(err), Error: err.Error()}
}
