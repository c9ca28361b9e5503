// Package recipe provides a read-only lookup of operator hints keyed
// by route domain and entity: package-manager commands and
// service-restart commands a human could run next. It never persists,
// mutates, or learns anything - every entry is a static fact baked
// into the binary, matching how far a distilled, read-only system is
// allowed to go without a write path.
package recipe

import "github.com/annassistant/annad/internal/router"

// Kind discriminates what an Entry suggests.
type Kind string

const (
	KindQuery           Kind = "query"
	KindPackageHint     Kind = "package_hint"
	KindServiceRestart  Kind = "service_restart"
	KindConfigEditHint  Kind = "config_edit_hint"
)

// Target names the application and config path a hint concerns, when
// the hint is config-shaped.
type Target struct {
	AppID              string
	ConfigPathTemplate string
}

// Entry is one static hint: what to do next for a given domain and
// entity, never executed by the daemon itself.
type Entry struct {
	Domain router.Domain
	Entity string // empty means "applies to any entity in Domain"
	Kind   Kind
	Hint   string
	Target *Target
}

// table is the full static lookup. Entities are lowercase; entries
// with an empty Entity are the domain-level fallback consulted when no
// entity-specific entry matches, mirroring a per-alert-then-default
// resolution hierarchy.
var table = []Entry{
	{Domain: router.DomainServices, Entity: "nginx", Kind: KindServiceRestart, Hint: "systemctl restart nginx"},
	{Domain: router.DomainServices, Entity: "sshd", Kind: KindServiceRestart, Hint: "systemctl restart sshd"},
	{Domain: router.DomainServices, Entity: "docker", Kind: KindServiceRestart, Hint: "systemctl restart docker"},
	{Domain: router.DomainServices, Kind: KindServiceRestart, Hint: "systemctl restart <unit>"},

	{Domain: router.DomainStorage, Kind: KindPackageHint, Hint: "ncdu or du -sh * to find what is consuming space"},

	{Domain: router.DomainSystem, Kind: KindPackageHint, Hint: "htop or ps aux --sort=-%mem to find the heaviest process"},

	{
		Domain: router.DomainOther, Entity: "vim", Kind: KindConfigEditHint,
		Hint:   "add a line to ~/.vimrc",
		Target: &Target{AppID: "vim", ConfigPathTemplate: "$HOME/.vimrc"},
	},
	{
		Domain: router.DomainOther, Entity: "bash", Kind: KindConfigEditHint,
		Hint:   "add a line to ~/.bashrc",
		Target: &Target{AppID: "bash", ConfigPathTemplate: "$HOME/.bashrc"},
	},
}

// Lookup resolves the hint for domain and entity: an exact
// domain+entity match takes priority, then the domain-level fallback
// (an entry with an empty Entity), matching the "per-alert URL, then
// default content" resolution order a recipe lookup is grounded on.
func Lookup(domain router.Domain, entity string) (Entry, bool) {
	var fallback Entry
	haveFallback := false

	for _, e := range table {
		if e.Domain != domain {
			continue
		}
		if e.Entity != "" && e.Entity == entity {
			return e, true
		}
		if e.Entity == "" && !haveFallback {
			fallback = e
			haveFallback = true
		}
	}
	return fallback, haveFallback
}
