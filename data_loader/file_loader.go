package data_loader

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/TykTechnologies/asana-mock/asana"
	"github.com/TykTechnologies/asana-mock/configuration"
)

// FileLoader implements DataLoader and will load a fixtures dataset from a JSON file
type FileLoader struct {
	config configuration.FileLoaderConf
	// backedUp is set once the file as found at start has been copied aside
	backedUp bool
}

// Init initialises the file loader
func (f *FileLoader) Init(conf interface{}) error {
	c, ok := conf.(configuration.FileLoaderConf)
	if !ok {
		return errors.New("file loader expects a FileLoaderConf")
	}
	f.config = c
	return nil
}

// LoadIntoStore will load, unmarshal and copy the dataset into a store. A
// missing file starts the mock empty.
func (f *FileLoader) LoadIntoStore(store asana.Store) error {
	var dataset asana.Dataset

	thisSet, err := os.ReadFile(f.config.FileName)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			dataLogger.WithField("filename", f.config.FileName).Warn("No fixtures file, starting empty")
			return nil
		}
		dataLogger.WithFields(logrus.Fields{
			"filename": f.config.FileName,
			"error":    err,
		}).Error("Load failure")
		return err
	}
	if err := json.Unmarshal(thisSet, &dataset); err != nil {
		dataLogger.WithField("error", err).Error("Couldn't unmarshal fixtures")
		return err
	}

	loaded := dataset.WriteInto(store, func(kind, gid string, err error) {
		dataLogger.WithFields(logrus.Fields{"kind": kind, "gid": gid, "error": err}).Error("Couldn't store document")
	})

	dataLogger.WithField("filename", f.config.FileName).Infof("Loaded %d of %d documents", loaded, dataset.Len())
	return nil
}

// Flush rewrites the file with the contents of the store. The first flush of
// a process backs the existing file up beforehand.
func (f *FileLoader) Flush(store asana.Store) error {
	if !f.backedUp {
		oldSet, err := os.ReadFile(f.config.FileName)
		switch {
		case err == nil:
			if err := f.backup(oldSet); err != nil {
				return err
			}
		case !errors.Is(err, os.ErrNotExist):
			dataLogger.WithFields(logrus.Fields{
				"filename": f.config.FileName,
				"error":    err,
			}).Error("load failed!")
			return err
		}
		f.backedUp = true
	}

	newSet, err := asana.ReadDataset(store)
	if err != nil {
		dataLogger.WithField("error", err).Error("Reading store failed!")
		return err
	}
	asJson, err := json.MarshalIndent(newSet, "", "  ")
	if err != nil {
		dataLogger.WithField("error", err).Error("Encoding failed!")
		return err
	}

	if err := os.WriteFile(f.config.FileName, asJson, 0644); err != nil {
		dataLogger.WithField("error", err).Error("flush failed!")
		return err
	}
	return nil
}

func (f *FileLoader) backup(oldSet []byte) error {
	ts := strconv.FormatInt(time.Now().UnixNano(), 10)
	base := strings.TrimSuffix(filepath.Base(f.config.FileName), filepath.Ext(f.config.FileName))
	bkFilename := base + "_backup_" + ts + ".json"

	dir := f.config.DataDir
	if dir == "" {
		dir = filepath.Dir(f.config.FileName)
	}
	bkLocation := filepath.Join(dir, bkFilename)

	if err := os.WriteFile(bkLocation, oldSet, 0644); err != nil {
		dataLogger.WithFields(logrus.Fields{
			"bk_filename": bkFilename,
			"error":       err,
		}).Error("backup failed!")
		return err
	}
	return nil
}
