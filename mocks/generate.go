package mocks

//go:generate mockgen -destination=./mock_source.go -package=mocks github.com/rxtech-lab/fxstore/internal/importer Source
