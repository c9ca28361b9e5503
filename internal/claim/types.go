// Package claim implements Claim Extraction & Grounding: anchored,
// strictly-scoped patterns pull verifiable facts out of candidate
// answer text, and each extracted fact is checked against typed
// evidence before the answer is allowed to count as grounded.
package claim

// Kind discriminates the Claim union.
type Kind string

const (
	KindNumeric Kind = "numeric"
	KindPercent Kind = "percent"
	KindStatus  Kind = "status"
)

// Numeric is a claim like "the process uses 512 MiB".
type Numeric struct {
	Subject string
	Bytes   uint64
	Raw     string
}

// Percent is a claim like "/ is 84% full".
type Percent struct {
	Mount   string
	Percent int
	Raw     string
}

// Status is a claim like "nginx.service is failed".
type Status struct {
	Service string
	State   string
	Raw     string
}

// Claim is the tagged union every extractor result satisfies.
type Claim interface {
	Kind() Kind
}

func (Numeric) Kind() Kind { return KindNumeric }
func (Percent) Kind() Kind { return KindPercent }
func (Status) Kind() Kind  { return KindStatus }

// mountAliases resolves a bare alias word to its canonical, /-prefixed
// mount path.
var mountAliases = map[string]string{
	"root": "/",
	"home": "/home",
	"var":  "/var",
	"tmp":  "/tmp",
	"boot": "/boot",
}

func resolveMount(raw string) (string, bool) {
	if len(raw) > 0 && raw[0] == '/' {
		return raw, true
	}
	canonical, ok := mountAliases[raw]
	return canonical, ok
}

// vagueSubjects are rejected by the numeric extractor; a pronoun
// standing in for a subject can never be checked against evidence.
var vagueSubjects = map[string]bool{
	"it": true, "this": true, "that": true, "which": true,
}
