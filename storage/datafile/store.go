package datafile

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/school"
)

// Store persists the directory in a single data file.
type Store struct {
	path   string
	svc    *school.Service
	log    core.Logger
	loader *Loader
	locked bool // set when the last load failed
}

func NewStore(path string, svc *school.Service, logger core.Logger) *Store {
	return &Store{
		path:   path,
		svc:    svc,
		log:    logger,
		loader: NewLoader(svc, logger),
	}
}

func (st *Store) Path() string { return st.path }

// Load resets the directory and fills it from the data file.
// A missing file leaves the directory empty. Any other failure locks the store
// until the next successful load.
func (st *Store) Load() (Summary, error) {
	st.locked = true
	if err := st.svc.Reset(); err != nil {
		return Summary{}, errors.Wrap(err, "resetting directory")
	}

	f, err := os.Open(st.path)
	if os.IsNotExist(err) {
		st.locked = false
		st.log.Info("data file " + st.path + " not found; starting with an empty directory")
		return Summary{}, nil
	}
	if err != nil {
		return Summary{}, errors.Wrap(err, "opening data file")
	}
	defer func() { _ = f.Close() }()

	sum, err := st.loader.Load(f)
	if err != nil {
		return sum, err
	}
	st.locked = false
	st.log.Info("data file " + st.path + " loaded")
	return sum, nil
}

// Save replaces the data file with a dump of the directory. The dump goes to a
// temporary file first so a failed save leaves the previous data file intact.
func (st *Store) Save() (err error) {
	if st.locked {
		return ErrStoreLocked
	}

	dir, base := filepath.Split(st.path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, base+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temporary data file")
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = Dump(tmp, st.svc); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return errors.Wrap(err, "syncing data file")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "closing data file")
	}
	if err = os.Rename(tmp.Name(), st.path); err != nil {
		return errors.Wrap(err, "replacing data file")
	}
	return nil
}
