package generator

import (
	"fmt"
	"testing"

	"github.com/kkanellis/cloudlab-nfs-client/internal/models"
	"github.com/kkanellis/cloudlab-nfs-client/internal/network"
	"github.com/kkanellis/cloudlab-nfs-client/internal/validator"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cidrParams(nodeCount int) models.Parameters {
	params := models.DefaultParameters()
	params.NodeCount = nodeCount
	params.SharedVlanNetwork = "10.254.254.0/24"
	return params
}

func Test_GenerateNodes(t *testing.T) {
	testCases := []struct {
		name   string
		params models.Parameters
	}{
		{
			name:   "static single node",
			params: models.DefaultParameters(),
		},
		{
			name:   "cidr four nodes",
			params: cidrParams(4),
		},
		{
			name:   "cidr full subnet",
			params: cidrParams(253),
		},
		{
			name:   "no nodes",
			params: cidrParams(0),
		},
	}

	for _, tc := range testCases {
		request, err := Generate(tc.params)
		require.NoError(t, err, tc.name)

		require.Len(t, request.Nodes, tc.params.NodeCount, tc.name)

		names := lo.Map(request.Nodes, func(node *models.Node, _ int) string { return node.Name })
		assert.Len(t, lo.Uniq(names), len(names), tc.name)

		for i, node := range request.Nodes {
			assert.Equal(t, fmt.Sprintf("node%d", i), node.Name)
			assert.Equal(t, tc.params.OSImage, node.DiskImage)
			assert.True(t, node.Exclusive)
			require.Len(t, node.Interfaces, 1)
			require.Len(t, node.Interfaces[0].Addresses, 1)
			assert.Equal(t, []models.Execute{{Shell: ClientShell, Command: ClientCommand}}, node.Services)
		}
	}
}

func Test_GenerateCIDRAddresses(t *testing.T) {
	request, err := Generate(cidrParams(10))
	require.NoError(t, err)

	seen := make(map[string]bool)
	for k, node := range request.Nodes {
		address := node.Interfaces[0].Addresses[0]

		assert.Equal(t, fmt.Sprintf("10.254.254.%d", 2+k), address.Address)
		assert.Equal(t, "255.255.255.0", address.Netmask)
		assert.Equal(t, models.IPv4AddressType, address.Type)
		assert.NotEqual(t, "10.254.254.1", address.Address)
		assert.False(t, seen[address.Address])
		seen[address.Address] = true
	}
}

func Test_GenerateReservedAddresses(t *testing.T) {
	params := cidrParams(3)
	params.ReservedAddresses = []string{"10.254.254.2", "10.254.254.3"}

	request, err := Generate(params)
	require.NoError(t, err)

	addresses := lo.Map(request.Nodes, func(node *models.Node, _ int) string {
		return node.Interfaces[0].Addresses[0].Address
	})
	assert.Equal(t, []string{"10.254.254.4", "10.254.254.5", "10.254.254.6"}, addresses)
}

// The static variant hands the same address to every node. This mirrors the
// behaviour of the published profile and is kept until the shared VLAN owners
// decide otherwise.
func Test_GenerateStaticAddressesRepeat(t *testing.T) {
	params := models.DefaultParameters()
	params.NodeCount = 4

	request, err := Generate(params)
	require.NoError(t, err)

	for _, node := range request.Nodes {
		address := node.Interfaces[0].Addresses[0]
		assert.Equal(t, "10.254.254.1", address.Address)
		assert.Equal(t, "255.255.255.0", address.Netmask)
	}
}

func Test_GenerateSharedLAN(t *testing.T) {
	params := cidrParams(5)
	params.SharedVlanName = "nfstiering"
	params.PhysType = "d710"

	request, err := Generate(params)
	require.NoError(t, err)

	require.Len(t, request.LANs, 1)
	lan := request.LANs[0]

	assert.Equal(t, LANName, lan.Name)
	assert.Equal(t, "nfstiering", lan.SharedVlan)
	assert.True(t, lan.BestEffort)
	assert.True(t, lan.VlanTagging)
	assert.True(t, lan.LinkMultiplexing)
	require.Len(t, lan.Interfaces, 5)

	for i, node := range request.Nodes {
		assert.Equal(t, "d710", node.HardwareType)

		memberships := lo.CountBy(request.LANs, func(lan *models.LAN) bool {
			return lo.Contains(lan.Interfaces, node.Interfaces[0])
		})
		assert.Equal(t, 1, memberships)
		assert.Same(t, node.Interfaces[0], lan.Interfaces[i])
	}
}

func Test_GenerateErrors(t *testing.T) {
	withPhysTypes := models.DefaultParameters()
	withPhysTypes.PhysType = "pc3000,d710"
	withPhysTypes.NodeCount = 3

	badNetwork := models.DefaultParameters()
	badNetwork.SharedVlanNetwork = "10.254.254.0/33"

	badAddress := models.DefaultParameters()
	badAddress.SharedVlanAddress = "10.254.254"

	testCases := []struct {
		name   string
		params models.Parameters
		err    error
	}{
		{
			name:   "phystype list",
			params: withPhysTypes,
			err:    validator.ErrValidation,
		},
		{
			name:   "more nodes than host addresses",
			params: cidrParams(254),
			err:    network.ErrAddressSpaceExhausted,
		},
		{
			name:   "bad network",
			params: badNetwork,
			err:    network.ErrInvalidNetwork,
		},
		{
			name:   "bad static address",
			params: badAddress,
			err:    network.ErrInvalidAddress,
		},
	}

	for _, tc := range testCases {
		request, err := Generate(tc.params)
		assert.ErrorIs(t, err, tc.err, tc.name)
		assert.Nil(t, request, tc.name)
	}
}

func Test_NewContext(t *testing.T) {
	gctx, err := NewContext(cidrParams(2))
	require.NoError(t, err)

	assert.Equal(t, "10.254.254.1", gctx.Plan.Gateway().String())
	assert.Empty(t, gctx.Request.Nodes)

	require.NoError(t, gctx.Build())
	assert.Len(t, gctx.Request.Nodes, 2)
}
