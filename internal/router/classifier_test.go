package router

import (
	"testing"

	"github.com/annassistant/annad/internal/probe"
	"github.com/stretchr/testify/assert"
)

func TestClassifyKnownClasses(t *testing.T) {
	cases := []struct {
		query string
		class Class
		probe probe.ID
	}{
		{"how much RAM do I have?", ClassRAMInfo, probe.FreeMem},
		{"what's my CPU model", ClassCPUInfo, probe.LsCPU},
		{"is my disk full", ClassDiskSpace, probe.DfHuman},
		{"show me network interfaces", ClassNetworkInterfaces, probe.IPAddrShow},
		{"what is using memory", ClassTopMemoryProcesses, probe.PsTopMemory},
		{"top cpu processes", ClassTopCPUProcesses, probe.PsTopCPU},
		{"help", ClassHelp, ""},
	}

	for _, tc := range cases {
		plan := Classify(tc.query)
		assert.Equal(t, tc.class, plan.RouteClass, tc.query)
		if tc.probe != "" {
			assert.Contains(t, plan.ProbeIDs, tc.probe, tc.query)
		}
	}
}

func TestClassifyTopMemoryBeatsPlainMemory(t *testing.T) {
	plan := Classify("what processes are using the most memory")
	assert.Equal(t, ClassTopMemoryProcesses, plan.RouteClass)
}

func TestClassifySystemSlowMultiProbe(t *testing.T) {
	plan := Classify("my system feels really slow today")
	assert.Equal(t, ClassSystemSlow, plan.RouteClass)
	assert.ElementsMatch(t, []probe.ID{probe.PsTopCPU, probe.PsTopMemory, probe.DfHuman}, plan.ProbeIDs)
}

func TestClassifyUnknownHasZeroConfidenceAndNoProbes(t *testing.T) {
	plan := Classify("tell me a joke")
	assert.Equal(t, ClassUnknown, plan.RouteClass)
	assert.Empty(t, plan.ProbeIDs)
	assert.Zero(t, plan.Confidence)
	assert.NotEmpty(t, plan.ClarificationHint)
}

func TestClassifyServiceIsActiveExtractsEntity(t *testing.T) {
	plan := Classify("is nginx running?")
	assert.Equal(t, ClassServiceIsActive, plan.RouteClass)
	assert.Equal(t, DomainServices, plan.Domain)
	assert.ElementsMatch(t, []probe.ID{probe.SystemctlActive, probe.SystemctlStatus}, plan.ProbeIDs)
	assert.Equal(t, []string{"nginx.service"}, plan.Entities)
}

func TestClassifyServiceIsActiveBeatsGenericServiceStatus(t *testing.T) {
	plan := Classify("is sshd active")
	assert.Equal(t, ClassServiceIsActive, plan.RouteClass)
	assert.Equal(t, []string{"sshd.service"}, plan.Entities)
}

func TestClassifyToolInstalledExtractsEntity(t *testing.T) {
	plan := Classify("is docker installed?")
	assert.Equal(t, ClassToolInstalled, plan.RouteClass)
	assert.Equal(t, []probe.ID{probe.CommandExists}, plan.ProbeIDs)
	assert.Equal(t, []string{"docker"}, plan.Entities)
}

func TestClassifyGenericServiceStatusHasNoEntities(t *testing.T) {
	plan := Classify("show me failed services")
	assert.Equal(t, ClassServiceStatus, plan.RouteClass)
	assert.Empty(t, plan.Entities)
}

func TestClassifyIsDeterministic(t *testing.T) {
	a := Classify("how much ram do i have")
	b := Classify("how much ram do i have")
	assert.Equal(t, a, b)
}
