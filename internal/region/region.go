// Package region maps region names to their isolated databases.  Every
// region owns a full copy of the schema in its own database; nothing is
// shared across regions and no request ever touches more than one.
package region

import (
	"database/sql"
	"errors"
	"sort"

	"github.com/iliyamo/cinema-ticketing/internal/repository"
)

// ErrUnknownRegion indicates that a request named a region the service
// was not configured with.
var ErrUnknownRegion = errors.New("unknown region")

// Dataset bundles one region's database handle with the repositories
// bound to it.
type Dataset struct {
	Name         string
	DB           *sql.DB
	Halls        *repository.HallRepo
	Seats        *repository.SeatRepo
	Movies       *repository.MovieRepo
	Shows        *repository.ShowRepo
	Reservations *repository.ReservationRepo
	Payments     *repository.PaymentRepo
}

// Registry is the closed set of configured regions.  It is built once
// at startup and read-only afterwards, so lookups need no locking.
type Registry struct {
	sets  map[string]*Dataset
	names []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{sets: make(map[string]*Dataset)}
}

// Add registers a region's dataset.  Later adds under the same name
// replace earlier ones.
func (r *Registry) Add(d *Dataset) {
	if _, ok := r.sets[d.Name]; !ok {
		r.names = append(r.names, d.Name)
		sort.Strings(r.names)
	}
	r.sets[d.Name] = d
}

// Resolve returns the dataset for the named region or ErrUnknownRegion.
func (r *Registry) Resolve(name string) (*Dataset, error) {
	d, ok := r.sets[name]
	if !ok {
		return nil, ErrUnknownRegion
	}
	return d, nil
}

// Names returns the configured region names in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// All returns every dataset; iteration order follows Names.
func (r *Registry) All() []*Dataset {
	out := make([]*Dataset, 0, len(r.names))
	for _, n := range r.names {
		out = append(out, r.sets[n])
	}
	return out
}

// Close closes every region's database handle, returning the first
// error encountered.
func (r *Registry) Close() error {
	var first error
	for _, d := range r.sets {
		if err := d.DB.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
