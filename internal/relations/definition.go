package relations

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/jinzhu/inflection"
)

// Kind is the cardinality/ownership shape of a relationship.
type Kind int

const (
	ManyToOne Kind = iota + 1
	OneToOne
	OneToMany
	ManyToMany
)

// BelongsTo is the owning-side name GORM and most ORMs use for ManyToOne.
const BelongsTo = ManyToOne

func (k Kind) String() string {
	switch k {
	case ManyToOne:
		return "ManyToOne"
	case OneToOne:
		return "OneToOne"
	case OneToMany:
		return "OneToMany"
	case ManyToMany:
		return "ManyToMany"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText renders the kind by name in JSON and YAML output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind rendered by MarshalText.
func (k *Kind) UnmarshalText(text []byte) error {
	for _, c := range []Kind{ManyToOne, OneToOne, OneToMany, ManyToMany} {
		if c.String() == string(text) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("unknown relationship kind %q", text)
}

// rank orders kinds for application: owning sides first, join relationships last.
func (k Kind) rank() int {
	switch k {
	case ManyToOne:
		return 1
	case OneToOne:
		return 2
	case OneToMany:
		return 3
	case ManyToMany:
		return 4
	default:
		return 5
	}
}

func (k Kind) valid() bool {
	return k >= ManyToOne && k <= ManyToMany
}

// Action is a referential action applied to a foreign-key constraint.
type Action string

const (
	Cascade  Action = "CASCADE"
	SetNull  Action = "SET NULL"
	Restrict Action = "RESTRICT"
	NoAction Action = "NO ACTION"
)

// Referential holds constraint settings shared by every relationship kind.
type Referential struct {
	OnDelete Action `json:"onDelete,omitempty" yaml:"onDelete,omitempty"`
	OnUpdate Action `json:"onUpdate,omitempty" yaml:"onUpdate,omitempty"`
	// Constraints disables the foreign-key constraint when set to false.
	Constraints *bool `json:"constraints,omitempty" yaml:"constraints,omitempty"`
}

// ConstraintsEnabled reports whether a foreign-key constraint should be emitted.
func (r Referential) ConstraintsEnabled() bool {
	return r.Constraints == nil || *r.Constraints
}

// Options is the per-kind configuration of a relationship. Each kind has its own
// variant so that, for example, only many-to-many relationships can name a join type.
type Options interface {
	Kind() Kind
	referential() Referential
}

// OneToOneOptions configures a has-one relationship.
type OneToOneOptions struct {
	Alias      string
	ForeignKey string
	Referential
}

// OneToManyOptions configures a has-many relationship.
type OneToManyOptions struct {
	Alias      string
	ForeignKey string
	OrderBy    string
	Referential
}

// ManyToOneOptions configures a belongs-to relationship.
type ManyToOneOptions struct {
	Alias      string
	ForeignKey string
	Referential
}

// ManyToManyOptions configures a relationship realized through a join entity.
type ManyToManyOptions struct {
	Alias      string
	ForeignKey string
	OtherKey   string
	Through    string
	OrderBy    string
	Referential
}

func (OneToOneOptions) Kind() Kind   { return OneToOne }
func (OneToManyOptions) Kind() Kind  { return OneToMany }
func (ManyToOneOptions) Kind() Kind  { return ManyToOne }
func (ManyToManyOptions) Kind() Kind { return ManyToMany }

func (o OneToOneOptions) referential() Referential   { return o.Referential }
func (o OneToManyOptions) referential() Referential  { return o.Referential }
func (o ManyToOneOptions) referential() Referential  { return o.Referential }
func (o ManyToManyOptions) referential() Referential { return o.Referential }

// Key identifies a relationship: one alias per source/target pair.
type Key struct {
	Source string
	Target string
	Alias  string
}

func (k Key) String() string {
	return k.Source + "->" + k.Target + "." + k.Alias
}

// Definition describes one declared relationship between two entity types.
type Definition struct {
	SourceType   string  `json:"source" yaml:"source"`
	TargetType   string  `json:"target" yaml:"target"`
	Kind         Kind    `json:"kind" yaml:"kind"`
	Alias        string  `json:"alias" yaml:"alias"`
	ForeignKey   string  `json:"foreignKey" yaml:"foreignKey"`
	OtherKey     string  `json:"otherKey,omitempty" yaml:"otherKey,omitempty"`
	Through      string  `json:"through,omitempty" yaml:"through,omitempty"`
	Options      Options `json:"-" yaml:"-"`
	OwningModule string  `json:"module" yaml:"module"`
	Applied      bool    `json:"applied" yaml:"applied"`
}

// Key returns the identity key of the definition.
func (d *Definition) Key() Key {
	return Key{Source: d.SourceType, Target: d.TargetType, Alias: d.Alias}
}

// Referential returns the constraint settings carried by the options.
func (d *Definition) Referential() Referential {
	if d.Options == nil {
		return Referential{}
	}
	return d.Options.referential()
}

// OrderBy returns the default ordering for collection relationships.
func (d *Definition) OrderBy() string {
	switch o := d.Options.(type) {
	case OneToManyOptions:
		return o.OrderBy
	case ManyToManyOptions:
		return o.OrderBy
	}
	return ""
}

// normalize copies names set only on the options, then fills in alias and key
// defaults from the naming convention.
func (d *Definition) normalize() {
	var alias, foreignKey string
	switch o := d.Options.(type) {
	case OneToOneOptions:
		alias, foreignKey = o.Alias, o.ForeignKey
	case OneToManyOptions:
		alias, foreignKey = o.Alias, o.ForeignKey
	case ManyToOneOptions:
		alias, foreignKey = o.Alias, o.ForeignKey
	case ManyToManyOptions:
		alias, foreignKey = o.Alias, o.ForeignKey
		if d.OtherKey == "" {
			d.OtherKey = o.OtherKey
		}
		if d.Through == "" {
			d.Through = o.Through
		}
	}
	if d.Alias == "" {
		d.Alias = alias
	}
	if d.ForeignKey == "" {
		d.ForeignKey = foreignKey
	}

	if d.Alias == "" {
		switch d.Kind {
		case OneToMany, ManyToMany:
			d.Alias = lowerFirst(inflection.Plural(d.TargetType))
		default:
			d.Alias = lowerFirst(d.TargetType)
		}
	}
	if d.ForeignKey == "" {
		if d.Kind == ManyToOne {
			d.ForeignKey = keyName(d.TargetType)
		} else {
			d.ForeignKey = keyName(d.SourceType)
		}
	}
	if d.Kind == ManyToMany && d.OtherKey == "" {
		d.OtherKey = keyName(d.TargetType)
	}
}

// NewOneToOne declares that source has one target.
func NewOneToOne(source, target string, opts OneToOneOptions) Definition {
	d := Definition{
		SourceType: source,
		TargetType: target,
		Kind:       OneToOne,
		Options:    opts,
	}
	d.normalize()
	return d
}

// NewOneToMany declares that source has many targets.
func NewOneToMany(source, target string, opts OneToManyOptions) Definition {
	d := Definition{
		SourceType: source,
		TargetType: target,
		Kind:       OneToMany,
		Options:    opts,
	}
	d.normalize()
	return d
}

// NewManyToOne declares that source belongs to target.
func NewManyToOne(source, target string, opts ManyToOneOptions) Definition {
	d := Definition{
		SourceType: source,
		TargetType: target,
		Kind:       ManyToOne,
		Options:    opts,
	}
	d.normalize()
	return d
}

// NewManyToMany declares that source and target are linked through a join type.
func NewManyToMany(source, target string, opts ManyToManyOptions) Definition {
	d := Definition{
		SourceType: source,
		TargetType: target,
		Kind:       ManyToMany,
		Options:    opts,
	}
	d.normalize()
	return d
}

// Module stamps the declaring feature module onto the definitions it builds.
type Module string

func (m Module) OneToOne(source, target string, opts OneToOneOptions) Definition {
	d := NewOneToOne(source, target, opts)
	d.OwningModule = string(m)
	return d
}

func (m Module) OneToMany(source, target string, opts OneToManyOptions) Definition {
	d := NewOneToMany(source, target, opts)
	d.OwningModule = string(m)
	return d
}

func (m Module) ManyToOne(source, target string, opts ManyToOneOptions) Definition {
	d := NewManyToOne(source, target, opts)
	d.OwningModule = string(m)
	return d
}

func (m Module) ManyToMany(source, target string, opts ManyToManyOptions) Definition {
	d := NewManyToMany(source, target, opts)
	d.OwningModule = string(m)
	return d
}

func keyName(typeName string) string {
	return lowerFirst(typeName) + "Id"
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}
