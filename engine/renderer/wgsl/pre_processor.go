package wgsl

import (
	"fmt"
	"strconv"
	"strings"
)

// annotationPrefix marks a pre-processor directive inside a WGSL line comment.
const annotationPrefix = "//@oxy:"

// Include is a named WGSL fragment that programs splice in with //@oxy:include <name>.
type Include struct {
	// Source is the WGSL text inserted at the directive.
	Source string
	// Type is the struct name Source declares, used by //@oxy:storage.
	Type string
}

// StorageDeclaration records a //@oxy:storage directive found by Process.
type StorageDeclaration struct {
	Slot    uint32
	VarName string
	Include string
}

// PreProcessor expands @oxy directives in WGSL source:
//
//	//@oxy:include <name>                 inserts the registered fragment
//	//@oxy:storage <slot> <var> <name>    declares a read-only storage array of the fragment's type
//	                                      at @group(1) @binding(slot)
type PreProcessor interface {
	// Process expands every directive in source.
	//
	// Parameters:
	//   - source: WGSL source containing directives
	//
	// Returns:
	//   - string: the expanded source
	//   - error: error naming the line of the first malformed or unknown directive
	Process(source string) (string, error)

	// Declarations returns the storage declarations found by the last Process call in source order.
	//
	// Returns:
	//   - []StorageDeclaration: the declarations
	Declarations() []StorageDeclaration
}

type preProcessor struct {
	includes     map[string]Include
	declarations []StorageDeclaration
}

var _ PreProcessor = &preProcessor{}

// PreProcessorOption configures a PreProcessor.
type PreProcessorOption func(*preProcessor)

// WithInclude registers fragment under name.
func WithInclude(name string, fragment Include) PreProcessorOption {
	return func(p *preProcessor) {
		p.includes[name] = fragment
	}
}

// NewPreProcessor creates a PreProcessor knowing the given includes.
func NewPreProcessor(options ...PreProcessorOption) PreProcessor {
	p := &preProcessor{includes: make(map[string]Include)}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = p.declarations[:0]

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		directive, ok := strings.CutPrefix(strings.TrimSpace(line), annotationPrefix)
		if !ok {
			out = append(out, line)
			continue
		}

		fields := strings.Fields(directive)
		if len(fields) == 0 {
			return "", fmt.Errorf("line %d: empty @oxy directive", i+1)
		}
		switch fields[0] {
		case "include":
			if len(fields) != 2 {
				return "", fmt.Errorf("line %d: @oxy:include takes one argument", i+1)
			}
			inc, ok := p.includes[fields[1]]
			if !ok {
				return "", fmt.Errorf("line %d: unknown include %q", i+1, fields[1])
			}
			out = append(out, inc.Source)
		case "storage":
			if len(fields) != 4 {
				return "", fmt.Errorf("line %d: @oxy:storage takes <slot> <var> <include>", i+1)
			}
			slot, err := strconv.ParseUint(fields[1], 10, 32)
			if err != nil {
				return "", fmt.Errorf("line %d: invalid storage slot %q: %w", i+1, fields[1], err)
			}
			inc, ok := p.includes[fields[3]]
			if !ok || inc.Type == "" {
				return "", fmt.Errorf("line %d: unknown storage type %q", i+1, fields[3])
			}
			out = append(out, fmt.Sprintf("@group(1) @binding(%d) var<storage, read> %s: array<%s>;", slot, fields[2], inc.Type))
			p.declarations = append(p.declarations, StorageDeclaration{Slot: uint32(slot), VarName: fields[2], Include: fields[3]})
		default:
			return "", fmt.Errorf("line %d: unknown @oxy directive %q", i+1, fields[0])
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []StorageDeclaration {
	return p.declarations
}
