package data_loader

import "github.com/TykTechnologies/asana-mock/asana"

// DumbLoader does nothing, use for those cases where the store is persistent
// on its own so calling Flush and LoadIntoStore doesnt make sense
type DumbLoader struct{}

func (DumbLoader) Init(conf interface{}) error {
	return nil
}

func (DumbLoader) LoadIntoStore(asana.Store) error {
	return nil
}

func (DumbLoader) Flush(asana.Store) error {
	return nil
}
