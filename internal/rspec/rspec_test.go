package rspec

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kkanellis/cloudlab-nfs-client/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testRequest(nodeCount int, hardwareType string) *models.Request {
	request := models.NewRequest()

	lan := request.LAN("nfsLan")
	lan.BestEffort = true
	lan.VlanTagging = true
	lan.LinkMultiplexing = true

	for i := 0; i < nodeCount; i++ {
		node := request.RawPC(fmt.Sprintf("node%d", i))
		node.HardwareType = hardwareType
		node.DiskImage = models.AvailableImages[0].URN

		iface := node.AddInterface()
		iface.AddAddress(models.IPv4Address(fmt.Sprintf("10.254.254.%d", 2+i), "255.255.255.0"))

		lan.AddInterface(iface)
		lan.ConnectSharedVlan("kkanellis-nfs-tiering")

		node.AddService(models.Execute{Shell: "sh", Command: "sudo /bin/bash /local/repository/nfs-client.sh"})
	}

	return request
}

func Test_ParseFormat(t *testing.T) {
	testCases := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{input: "xml", expected: FormatXML},
		{input: "XML", expected: FormatXML},
		{input: "yaml", expected: FormatYAML},
		{input: "yml", expected: FormatYAML},
		{input: "json", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tc := range testCases {
		actual, err := ParseFormat(tc.input)
		if tc.wantErr {
			assert.ErrorIs(t, err, ErrUnknownFormat, tc.input)
		} else {
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		}
	}

	assert.Equal(t, ".xml", FormatXML.Extension())
	assert.Equal(t, ".yaml", FormatYAML.Extension())
}

func Test_RenderXML(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, Render(buf, testRequest(3, "d710"), FormatXML))

	out := buf.String()

	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, out, `<rspec xmlns="http://www.geni.net/resources/rspec/3"`)
	assert.Contains(t, out, `type="request"`)
	assert.Equal(t, 3, strings.Count(out, "<node "))
	assert.Contains(t, out, `<node client_id="node0" exclusive="true">`)
	assert.Contains(t, out, `<sliver_type name="raw-pc">`)
	assert.Contains(t, out, `<disk_image name="urn:publicid:IDN+emulab.net+image+emulab-ops//UBUNTU22-64-STD"></disk_image>`)
	assert.Contains(t, out, `<hardware_type name="d710"></hardware_type>`)
	assert.Contains(t, out, `<execute shell="sh" command="sudo /bin/bash /local/repository/nfs-client.sh"></execute>`)
	assert.Contains(t, out, `<interface client_id="node1:if0">`)
	assert.Contains(t, out, `<ip address="10.254.254.3" netmask="255.255.255.0" type="ipv4"></ip>`)
	assert.Equal(t, 1, strings.Count(out, "<link "))
	assert.Equal(t, 3, strings.Count(out, "<interface_ref "))
	assert.Contains(t, out, `<emulab:best_effort enabled="true"></emulab:best_effort>`)
	assert.Contains(t, out, `<emulab:vlan_tagging enabled="true"></emulab:vlan_tagging>`)
	assert.Contains(t, out, `<emulab:link_multiplexing enabled="true"></emulab:link_multiplexing>`)
	assert.Equal(t, 1, strings.Count(out, `<sharedvlan:link_shared_vlan name="kkanellis-nfs-tiering">`))
}

func Test_RenderXMLWithoutHardwareType(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, Render(buf, testRequest(2, ""), FormatXML))

	assert.NotContains(t, buf.String(), "hardware_type")
}

func Test_RenderYAML(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, Render(buf, testRequest(2, ""), FormatYAML))

	var doc struct {
		Type  string `yaml:"type"`
		Nodes []struct {
			Name       string `yaml:"name"`
			Interfaces []struct {
				ClientID string `yaml:"clientId"`
				IPs      []struct {
					Address string `yaml:"address"`
				} `yaml:"ips"`
			} `yaml:"interfaces"`
		} `yaml:"nodes"`
		Links []struct {
			Name       string `yaml:"name"`
			SharedVlan struct {
				Name string `yaml:"name"`
			} `yaml:"sharedVlan"`
		} `yaml:"links"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "request", doc.Type)
	require.Len(t, doc.Nodes, 2)
	assert.Equal(t, "node1", doc.Nodes[1].Name)
	assert.Equal(t, "node1:if0", doc.Nodes[1].Interfaces[0].ClientID)
	assert.Equal(t, "10.254.254.3", doc.Nodes[1].Interfaces[0].IPs[0].Address)
	require.Len(t, doc.Links, 1)
	assert.Equal(t, "kkanellis-nfs-tiering", doc.Links[0].SharedVlan.Name)
	assert.NotContains(t, buf.String(), "hardwareType")
}

func Test_RenderUnknownFormat(t *testing.T) {
	err := Render(&bytes.Buffer{}, testRequest(1, ""), Format("json"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func Test_WriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.xml")

	require.NoError(t, WriteFile(path, testRequest(1, ""), FormatXML))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `<node client_id="node0" exclusive="true">`)

	err = WriteFile(filepath.Join(t.TempDir(), "missing", "profile.xml"), testRequest(1, ""), FormatXML)
	assert.Error(t, err)
}
