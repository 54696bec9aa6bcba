package resources

import (
	"errors"

	"github.com/joshuapare/romkit/rom"
	"github.com/joshuapare/romkit/rom/diag"
	"github.com/joshuapare/romkit/rom/varblock"
)

// Session is one edit pass over one image. Resources that failed to load
// are nil; the others remain usable.
type Session struct {
	Image  *rom.Image
	Layout Resolved

	Treasures       *Treasures
	RandomTreasures *RandomTreasures
	CheckPoints     *CheckPoints
	Computers       *Computers
	EventTiles      *EventTiles
}

// ApplyResult carries what Apply produced beyond the written bytes.
type ApplyResult struct {
	// EventTiles is set when the event tile block was written.
	EventTiles *varblock.Result
}

// Load resolves layout and decodes every resource from img.
//
// A failing resource does not stop the others, including one whose range
// does not fit its table: the returned session holds every resource that
// decoded, and the error joins one *ResourceError per failure. Only an
// unusable owner list fails the whole load.
func Load(img *rom.Image, layout *Layout, sink diag.Sink) (*Session, error) {
	resolved, err := layout.Resolve()
	if err != nil {
		return nil, err
	}
	s := &Session{Image: img, Layout: resolved}

	var errs []error
	s.Treasures, err = LoadTreasures(img, resolved.Treasures, sink)
	errs = append(errs, resourceErr(NameTreasures, err))

	s.RandomTreasures, err = LoadRandomTreasures(img, resolved.RandomTreasures, sink)
	errs = append(errs, resourceErr(NameRandomTreasures, err))

	s.CheckPoints, err = LoadCheckPoints(img, resolved.CheckPoints, sink)
	errs = append(errs, resourceErr(NameCheckPoints, err))

	s.Computers, err = LoadComputers(img, resolved.Computers, sink)
	errs = append(errs, resourceErr(NameComputers, err))

	s.EventTiles, err = LoadEventTiles(img, resolved.EventTiles, resolved.Owners, sink)
	errs = append(errs, resourceErr(NameEventTiles, err))

	return s, errors.Join(errs...)
}

// Apply encodes every loaded resource in a fixed order: treasures, random
// treasures, check points, computers, event tiles. Failures are collected
// per resource as in Load.
func (s *Session) Apply(sink diag.Sink) (ApplyResult, error) {
	var res ApplyResult
	var errs []error

	if s.Treasures != nil {
		errs = append(errs, resourceErr(NameTreasures, s.Treasures.Apply(s.Image, sink)))
	}
	if s.RandomTreasures != nil {
		errs = append(errs, resourceErr(NameRandomTreasures, s.RandomTreasures.Apply(s.Image, sink)))
	}
	if s.CheckPoints != nil {
		errs = append(errs, resourceErr(NameCheckPoints, s.CheckPoints.Apply(s.Image, sink)))
	}
	if s.Computers != nil {
		errs = append(errs, resourceErr(NameComputers, s.Computers.Apply(s.Image, sink)))
	}
	if s.EventTiles != nil {
		r, err := s.EventTiles.Apply(s.Image, sink)
		if err == nil {
			res.EventTiles = &r
		}
		errs = append(errs, resourceErr(NameEventTiles, err))
	}
	return res, errors.Join(errs...)
}
