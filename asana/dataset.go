package asana

import (
	"fmt"
)

// ReadDataset dumps every document of the store
func ReadDataset(store Store) (Dataset, error) {
	var d Dataset
	targets := map[string]interface{}{
		KindWorkspace: &d.Workspaces,
		KindUser:      &d.Users,
		KindTeam:      &d.Teams,
		KindProject:   &d.Projects,
		KindSection:   &d.Sections,
		KindTask:      &d.Tasks,
		KindTag:       &d.Tags,
		KindStory:     &d.Stories,
	}
	for _, kind := range Kinds {
		if err := store.GetAll(kind, targets[kind]); err != nil {
			return d, fmt.Errorf("reading %s documents: %w", kind, err)
		}
	}
	return d, nil
}

// WriteInto copies the dataset into store and returns the number of
// documents written. A document that fails to save is reported through
// onErr and skipped.
func (d Dataset) WriteInto(store Store, onErr func(kind, gid string, err error)) int {
	var loaded int
	put := func(kind, gid string, v interface{}) {
		if err := store.SetKey(kind, gid, v); err != nil {
			if onErr != nil {
				onErr(kind, gid, err)
			}
			return
		}
		loaded++
	}

	for _, v := range d.Workspaces {
		put(KindWorkspace, v.GID, v)
	}
	for _, v := range d.Users {
		put(KindUser, v.GID, v)
	}
	for _, v := range d.Teams {
		put(KindTeam, v.GID, v)
	}
	for _, v := range d.Projects {
		put(KindProject, v.GID, v)
	}
	for _, v := range d.Sections {
		put(KindSection, v.GID, v)
	}
	for _, v := range d.Tasks {
		put(KindTask, v.GID, v)
	}
	for _, v := range d.Tags {
		put(KindTag, v.GID, v)
	}
	for _, v := range d.Stories {
		put(KindStory, v.GID, v)
	}
	return loaded
}

// Len counts the documents in the dataset
func (d Dataset) Len() int {
	return len(d.Workspaces) + len(d.Users) + len(d.Teams) + len(d.Projects) +
		len(d.Sections) + len(d.Tasks) + len(d.Tags) + len(d.Stories)
}
