package daemon

import (
	"strings"

	"github.com/annassistant/annad/internal/evidence"
	"github.com/annassistant/annad/internal/recipe"
	"github.com/annassistant/annad/internal/router"
)

// bareServiceName strips the ".service" suffix ServiceEntry.Name
// always carries, since the recipe table keys services by their bare
// unit name the way an operator would type it ("nginx", not
// "nginx.service").
func bareServiceName(name string) string {
	return strings.TrimSuffix(name, ".service")
}

// diskFullThreshold is the use% at which a disk_space answer gets a
// "find what's consuming space" hint appended - comfortably above
// ordinary steady-state usage.
const diskFullThreshold = 90

// recipeHint returns an optional read-only operator hint to append
// after a verified answer. It only ever returns non-empty when the
// probed evidence itself shows something to act on - a service that
// isn't active, a failed unit, a disk past diskFullThreshold, a
// system_slow question whose process listing is non-empty (no usage
// threshold is applied to it), or an Unknown-class entity the static
// table recognizes. A probe that
// answered "it's running" or "plenty of space" never gets a manual
// workaround tacked onto it: the core verification rule is that Anna
// never proposes a manual command when a probe already answered the
// question, and a healthy result is itself a complete answer.
func recipeHint(plan router.RoutePlan, ev []evidence.Data) string {
	switch plan.RouteClass {
	case router.ClassServiceIsActive:
		return serviceIsActiveHint(plan, ev)
	case router.ClassServiceStatus:
		return serviceStatusHint(ev)
	case router.ClassDiskSpace:
		return diskSpaceHint(ev)
	case router.ClassSystemSlow:
		return systemSlowHint(ev)
	case router.ClassUnknown:
		return unknownEntityHint(plan)
	default:
		return ""
	}
}

func serviceIsActiveHint(plan router.RoutePlan, ev []evidence.Data) string {
	if len(plan.Entities) == 0 {
		return ""
	}
	svc, ok := firstServices(ev)
	if !ok {
		return ""
	}
	name := evidence.CanonicalServiceName(plan.Entities[0])
	entry, found := svc.ByName(name)
	if !found || entry.State.IsUp() {
		return ""
	}
	e, ok := recipe.Lookup(router.DomainServices, bareServiceName(name))
	if !ok {
		return ""
	}
	return "Next step: " + e.Hint + "."
}

func serviceStatusHint(ev []evidence.Data) string {
	svc, ok := firstServices(ev)
	if !ok || len(svc.Entries) == 0 {
		return ""
	}
	e, ok := recipe.Lookup(router.DomainServices, bareServiceName(svc.Entries[0].Name))
	if !ok {
		return ""
	}
	return "Next step: " + e.Hint + "."
}

func diskSpaceHint(ev []evidence.Data) string {
	disk, ok := firstDisk(ev)
	if !ok || len(disk.Entries) == 0 {
		return ""
	}
	entry, found := disk.MountByPath("/")
	if !found {
		entry = disk.Entries[0]
	}
	if entry.UsePercent < diskFullThreshold {
		return ""
	}
	e, ok := recipe.Lookup(router.DomainStorage, "")
	if !ok {
		return ""
	}
	return "Next step: " + e.Hint + "."
}

func systemSlowHint(ev []evidence.Data) string {
	procs, ok := firstProcesses(ev)
	if !ok || len(procs.Entries) == 0 {
		return ""
	}
	e, ok := recipe.Lookup(router.DomainSystem, "")
	if !ok {
		return ""
	}
	return "Next step: " + e.Hint + "."
}

// unknownEntityHint covers the case where no deterministic route
// class matched but an entity and domain were recognized anyway (the
// optional translator is the only current source of these) - e.g. a
// question about vim or bash config that the static table has a
// config-edit hint for.
func unknownEntityHint(plan router.RoutePlan) string {
	if len(plan.Entities) == 0 {
		return ""
	}
	e, ok := recipe.Lookup(plan.Domain, plan.Entities[0])
	if !ok {
		return ""
	}
	return "Next step: " + e.Hint + "."
}
