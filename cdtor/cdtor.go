package cdtor

import (
	"errors"
	"fmt"

	"github.com/gocc-mid/cgraph/front"
	"github.com/gocc-mid/cgraph/node"
)

// ErrBadDiscriminator is returned when Build is asked to synthesize
// anything other than a constructor ('I') or destructor ('D').
var ErrBadDiscriminator = errors.New("cdtor: discriminator must be 'I' (constructor) or 'D' (destructor)")

// decl is the synthetic front.Decl manufactured for one ctor/dtor
// function. It carries no identity beyond its generated name: nothing
// else in the system ever looks it up by front-end declaration, since it
// never came from the front end.
type decl struct{ name string }

func (d *decl) DeclName() string { return d.name }

// Synthesizer manufactures static constructor/destructor functions,
// naming each with a monotonically increasing counter so repeated builds
// never collide.
type Synthesizer struct {
	store          *node.Store
	namePrefix     string
	nativeSections bool
	counter        uint64
}

// Option configures a Synthesizer at construction time.
type Option func(*Synthesizer)

// WithNamePrefix overrides the default "_GLOBAL__sub" synthetic-name
// prefix.
func WithNamePrefix(prefix string) Option {
	return func(s *Synthesizer) { s.namePrefix = prefix }
}

// WithNativeSections tells the synthesizer whether the target platform
// supports native ctor/dtor linker sections (e.g. ELF .init_array /
// .fini_array). When false, synthesized functions are left publicly
// visible instead, so a runtime without section support can still find
// them by name.
func WithNativeSections(supported bool) Option {
	return func(s *Synthesizer) { s.nativeSections = supported }
}

// New returns a Synthesizer that interns its manufactured nodes into
// store.
func New(store *node.Store, opts ...Option) *Synthesizer {
	s := &Synthesizer{store: store, namePrefix: "_GLOBAL__sub"}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Build manufactures a synthetic void/void function carrying body, marks
// it artificial, static, and uninlinable, and tags it a constructor or
// destructor per which. It does not itself call FinalizeFunction or
// invoke lowering/emission — routing into the pre-IPA or post-IPA path is
// the caller's decision (unit.Context.BuildStaticCdtor), since that
// depends on whether global_info_ready has already latched.
func (s *Synthesizer) Build(which byte, body front.Body, priority int) (*node.Function, error) {
	var isCtor bool
	switch which {
	case 'I':
		isCtor = true
	case 'D':
		isCtor = false
	default:
		return nil, fmt.Errorf("%w, got %q", ErrBadDiscriminator, which)
	}

	s.counter++
	name := fmt.Sprintf("%s_%c_%d_p%d", s.namePrefix, which, s.counter, priority)

	fn := s.store.FuncNode(&decl{name: name})
	fn.Artificial = true
	fn.Inlinable = false
	fn.Body = body
	fn.Lowered = true
	fn.StaticConstructor = isCtor
	fn.StaticDestructor = !isCtor

	if !s.nativeSections {
		// No native ctor/dtor section on this target: stay publicly
		// visible so the runtime's by-name fallback can still locate it.
		// Setting Public (rather than ExternallyVisible directly) lets
		// visibility.Resolve derive the same answer later without being
		// overwritten by its own pass-1 computation.
		fn.Public = true
	}

	// A static constructor/destructor must end up reachable and emitted
	// even if never referenced by any other function.
	s.store.MarkNeeded(fn)

	return fn, nil
}
