package daemon

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/annassistant/annad/internal/evidence"
	"github.com/annassistant/annad/internal/router"
)

func TestRecipeHintServiceIsActiveInactive(t *testing.T) {
	plan := router.RoutePlan{RouteClass: router.ClassServiceIsActive, Entities: []string{"nginx"}}
	ev := []evidence.Data{evidence.Services{Entries: []evidence.ServiceEntry{
		{Name: "nginx.service", State: evidence.StateInactive},
	}}}
	hint := recipeHint(plan, ev)
	assert.Contains(t, hint, "systemctl restart nginx")
}

func TestRecipeHintServiceIsActiveHealthyYieldsNoHint(t *testing.T) {
	plan := router.RoutePlan{RouteClass: router.ClassServiceIsActive, Entities: []string{"nginx"}}
	ev := []evidence.Data{evidence.Services{Entries: []evidence.ServiceEntry{
		{Name: "nginx.service", State: evidence.StateActive},
	}}}
	assert.Empty(t, recipeHint(plan, ev), "a healthy probe result must never get a manual workaround appended")
}

func TestRecipeHintServiceStatusFallsBackToGenericRestart(t *testing.T) {
	plan := router.RoutePlan{RouteClass: router.ClassServiceStatus}
	ev := []evidence.Data{evidence.Services{Entries: []evidence.ServiceEntry{
		{Name: "some-custom-daemon.service", State: evidence.StateFailed},
	}}}
	hint := recipeHint(plan, ev)
	assert.Contains(t, hint, "systemctl restart <unit>")
}

func TestRecipeHintServiceStatusNoFailuresYieldsNoHint(t *testing.T) {
	plan := router.RoutePlan{RouteClass: router.ClassServiceStatus}
	ev := []evidence.Data{evidence.Services{Entries: nil}}
	assert.Empty(t, recipeHint(plan, ev))
}

func TestRecipeHintDiskSpaceNearlyFull(t *testing.T) {
	plan := router.RoutePlan{RouteClass: router.ClassDiskSpace}
	ev := []evidence.Data{evidence.Disk{Entries: []evidence.DiskEntry{
		{MountPoint: "/", UsePercent: 95},
	}}}
	hint := recipeHint(plan, ev)
	assert.Contains(t, hint, "ncdu")
}

func TestRecipeHintDiskSpaceRoomyYieldsNoHint(t *testing.T) {
	plan := router.RoutePlan{RouteClass: router.ClassDiskSpace}
	ev := []evidence.Data{evidence.Disk{Entries: []evidence.DiskEntry{
		{MountPoint: "/", UsePercent: 40},
	}}}
	assert.Empty(t, recipeHint(plan, ev))
}

func TestRecipeHintSystemSlow(t *testing.T) {
	plan := router.RoutePlan{RouteClass: router.ClassSystemSlow}
	ev := []evidence.Data{evidence.Processes{Entries: []evidence.ProcessEntry{
		{Command: "stress", Percent: 98.0},
	}}}
	hint := recipeHint(plan, ev)
	assert.Contains(t, hint, "htop")
}

func TestRecipeHintUnknownEntityMatchesConfigEditHint(t *testing.T) {
	plan := router.RoutePlan{RouteClass: router.ClassUnknown, Domain: router.DomainOther, Entities: []string{"vim"}}
	hint := recipeHint(plan, nil)
	assert.Contains(t, hint, ".vimrc")
}

func TestRecipeHintUnknownWithoutEntityYieldsNoHint(t *testing.T) {
	plan := router.RoutePlan{RouteClass: router.ClassUnknown, Domain: router.DomainOther}
	assert.Empty(t, recipeHint(plan, nil))
}

func TestRecipeHintOtherRouteClassesYieldNoHint(t *testing.T) {
	plan := router.RoutePlan{RouteClass: router.ClassRAMInfo}
	assert.Empty(t, recipeHint(plan, nil))
}
