package asana

import (
	"errors"
	"sort"
	"sync"
	"time"

	logger "github.com/TykTechnologies/asana-mock/log"
	"github.com/sirupsen/logrus"
)

var log = logger.Get()
var serviceLogger = log.WithField("prefix", "ASANA SERVICE")

// Service runs every operation of the mock against a Store. Mutations are
// serialized so that updates spanning several documents stay consistent.
type Service struct {
	Store Store
	// Flush is called after every successful mutation, usually a data loader flush
	Flush func(Store) error
	Now   func() time.Time

	mu sync.Mutex
}

func NewService(store Store, flush func(Store) error) *Service {
	serviceLogger = log.WithField("prefix", "ASANA SERVICE")
	return &Service{
		Store: store,
		Flush: flush,
		Now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) now() time.Time {
	return s.Now().UTC().Truncate(time.Millisecond)
}

func (s *Service) lock() func() {
	s.mu.Lock()
	return s.mu.Unlock
}

// commit runs the configured flush once a mutation has been written
func (s *Service) commit() *HttpError {
	if s.Flush == nil {
		return nil
	}
	if err := s.Flush(s.Store); err != nil {
		serviceLogger.WithError(err).Error("flush failed")
		return internal("flush failed", err)
	}
	return nil
}

func get[T any](s *Service, kind, gid string) (*T, *HttpError) {
	if gid == "" {
		return nil, missingField(kind)
	}
	var v T
	if err := s.Store.GetKey(kind, gid, &v); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFound(kind, gid)
		}
		serviceLogger.WithFields(logrus.Fields{"kind": kind, "gid": gid}).WithError(err).Error("read failed")
		return nil, internal("Server Error", err)
	}
	return &v, nil
}

func all[T any](s *Service, kind string) ([]T, *HttpError) {
	var out []T
	if err := s.Store.GetAll(kind, &out); err != nil {
		serviceLogger.WithField("kind", kind).WithError(err).Error("list failed")
		return nil, internal("Server Error", err)
	}
	return out, nil
}

func (s *Service) put(kind, gid string, v interface{}) *HttpError {
	if err := s.Store.SetKey(kind, gid, v); err != nil {
		serviceLogger.WithFields(logrus.Fields{"kind": kind, "gid": gid}).WithError(err).Error("write failed")
		return internal("Server Error", err)
	}
	return nil
}

func (s *Service) del(kind, gid string) *HttpError {
	if err := s.Store.DeleteKey(kind, gid); err != nil && !errors.Is(err, ErrNotFound) {
		serviceLogger.WithFields(logrus.Fields{"kind": kind, "gid": gid}).WithError(err).Error("delete failed")
		return internal("Server Error", err)
	}
	return nil
}

// requireMember checks that caller belongs to workspace. An empty caller is
// the system itself (fixtures, tests) and passes.
func (s *Service) requireMember(caller, workspace string) *HttpError {
	if caller == "" {
		return nil
	}
	u, herr := get[User](s, KindUser, caller)
	if herr != nil {
		return herr
	}
	if !contains(u.Workspaces, workspace) {
		return forbidden("You do not have access to workspace " + workspace)
	}
	return nil
}

func (s *Service) requireWorkspaceUser(workspace, user string) (*User, *HttpError) {
	u, herr := get[User](s, KindUser, user)
	if herr != nil {
		return nil, herr
	}
	if !contains(u.Workspaces, workspace) {
		return nil, badRequest("user: " + user + " is not a member of workspace " + workspace)
	}
	return u, nil
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func appendUnique(list []string, values ...string) []string {
	for _, v := range values {
		if !contains(list, v) {
			list = append(list, v)
		}
	}
	return list
}

func without(list []string, values ...string) []string {
	out := list[:0:0]
	for _, x := range list {
		if !contains(values, x) {
			out = append(out, x)
		}
	}
	return out
}

// byCreation sorts resources oldest first, gid breaking ties
func byCreation[T any](items []T, key func(*T) (time.Time, string)) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, gi := key(&items[i])
		tj, gj := key(&items[j])
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return gi < gj
	})
}

func validDate(v string) bool {
	_, err := time.Parse("2006-01-02", v)
	return err == nil
}

func validDateTime(v string) bool {
	_, err := time.Parse(time.RFC3339, v)
	return err == nil
}

// Name reads the display name of a resource, empty when it cannot be read
func (s *Service) Name(kind, gid string) string {
	var v struct {
		Name string `json:"name"`
	}
	if gid == "" || s.Store.GetKey(kind, gid, &v) != nil {
		return ""
	}
	return v.Name
}
