package evidence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBlockDevicesNestedTree(t *testing.T) {
	out := "NAME   SIZE TYPE MOUNTPOINT\n" +
		"sda    100G disk\n" +
		"├─sda1   1G part /boot\n" +
		"└─sda2  99G part\n" +
		"  └─vg0  99G lvm  /\n"

	data := ParseBlockDevices(out)
	devices, ok := data.(BlockDevices)
	require.True(t, ok, "expected BlockDevices, got %T", data)
	require.Len(t, devices.Devices, 1)

	sda := devices.Devices[0]
	assert.Equal(t, "sda", sda.Name)
	require.Len(t, sda.Children, 2)
	assert.Equal(t, "sda1", sda.Children[0].Name)
	assert.Equal(t, "/boot", sda.Children[0].MountPoint)

	sda2 := sda.Children[1]
	assert.Equal(t, "sda2", sda2.Name)
	require.Len(t, sda2.Children, 1, "sda2's grandchild must survive sda gaining a second child")
	assert.Equal(t, "vg0", sda2.Children[0].Name)
	assert.Equal(t, "/", sda2.Children[0].MountPoint)
}

func TestParseBlockDevicesMultipleRoots(t *testing.T) {
	out := "NAME SIZE TYPE MOUNTPOINT\n" +
		"sda  50G  disk\n" +
		"├─sda1 49G part /\n" +
		"sdb  10G  disk\n" +
		"└─sdb1 10G part /data\n"

	data := ParseBlockDevices(out)
	devices, ok := data.(BlockDevices)
	require.True(t, ok, "expected BlockDevices, got %T", data)
	require.Len(t, devices.Devices, 2)

	assert.Equal(t, "sda", devices.Devices[0].Name)
	require.Len(t, devices.Devices[0].Children, 1)
	assert.Equal(t, "sda1", devices.Devices[0].Children[0].Name)

	assert.Equal(t, "sdb", devices.Devices[1].Name)
	require.Len(t, devices.Devices[1].Children, 1)
	assert.Equal(t, "sdb1", devices.Devices[1].Children[0].Name)
}

func TestParseBlockDevicesEmptyOutput(t *testing.T) {
	data := ParseBlockDevices("")
	_, ok := data.(Empty)
	assert.True(t, ok, "expected Empty, got %T", data)
}
