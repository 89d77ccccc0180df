package blueprint

import (
	"errors"

	"github.com/google/uuid"
	"github.com/oliverbestmann/blueprint/spoke"
)

type alphaValue struct {
	spoke.Component[alphaValue]
	Label string
}

type betaValue struct {
	spoke.Component[betaValue]
	Label string
}

type gammaValue struct {
	spoke.Component[gammaValue]
	Label string
}

// sequence records the labels of applied descriptors
type sequence struct {
	applied []string
}

type alpha struct {
	Kind[*alpha]
	label string
	seq   *sequence
}

func (d *alpha) Requirements() []*spoke.ComponentType {
	return []*spoke.ComponentType{spoke.ComponentTypeOf[alphaValue]()}
}

func (d *alpha) Apply(ctx Context, entityId EntityId, data any) error {
	d.seq.record(d.label)
	return ctx.Write(entityId, alphaValue{Label: d.label})
}

type beta struct {
	Kind[*beta]
	label string
	seq   *sequence
}

func (d *beta) Requirements() []*spoke.ComponentType {
	return []*spoke.ComponentType{spoke.ComponentTypeOf[betaValue]()}
}

func (d *beta) Apply(ctx Context, entityId EntityId, data any) error {
	d.seq.record(d.label)
	return ctx.Write(entityId, betaValue{Label: d.label})
}

type gamma struct {
	Kind[*gamma]
	label string
	seq   *sequence
	err   error
}

func (d *gamma) Requirements() []*spoke.ComponentType {
	return []*spoke.ComponentType{spoke.ComponentTypeOf[gammaValue]()}
}

func (d *gamma) Apply(ctx Context, entityId EntityId, data any) error {
	d.seq.record(d.label)

	if d.err != nil {
		return d.err
	}

	return ctx.Write(entityId, gammaValue{Label: d.label})
}

// keyed overrides descriptors with the same key, ignoring the label
type keyed struct {
	key   string
	label string
}

func (d *keyed) Requirements() []*spoke.ComponentType {
	return nil
}

func (d *keyed) Overrides(other Descriptor) bool {
	otherKeyed, ok := other.(*keyed)
	return ok && otherKeyed.key == d.key
}

func (d *keyed) Apply(Context, EntityId, any) error {
	return nil
}

func (s *sequence) record(label string) {
	if s != nil {
		s.applied = append(s.applied, label)
	}
}

// countingContext counts the shapes created by the wrapped world
type countingContext struct {
	*World
	created int
}

func (c *countingContext) CreateShape(types []*spoke.ComponentType) (Shape, error) {
	c.created += 1
	return c.World.CreateShape(types)
}

var errNoShapes = errors.New("no shapes for you")

type failingContext struct {
	*World
}

func (failingContext) CreateShape([]*spoke.ComponentType) (Shape, error) {
	return nil, errNoShapes
}

func newCountingContext() *countingContext {
	return &countingContext{World: NewWorld(WithWorldId(uuid.New()))}
}
