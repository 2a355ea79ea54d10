package generator

import (
	"fmt"

	"github.com/kkanellis/cloudlab-nfs-client/internal/models"
	"github.com/kkanellis/cloudlab-nfs-client/internal/network"
	"github.com/kkanellis/cloudlab-nfs-client/internal/validator"
	"github.com/kkanellis/cloudlab-nfs-client/pkg/logger"
	"github.com/sirupsen/logrus"
)

const (
	LANName       = "nfsLan"
	ClientShell   = "sh"
	ClientCommand = "sudo /bin/bash /local/repository/nfs-client.sh"
)

// Context carries one generation pass: the resolved parameters, the address
// plan nodes draw from and the request being built.
type Context struct {
	Params  models.Parameters
	Plan    network.Plan
	Request *models.Request
}

func NewContext(params models.Parameters) (*Context, error) {
	if err := validator.Validate(params); err != nil {
		return nil, err
	}

	plan, err := network.NewPlan(params)
	if err != nil {
		return nil, fmt.Errorf("failed to plan shared vlan addresses: %w", err)
	}

	return &Context{
		Params:  params,
		Plan:    plan,
		Request: models.NewRequest(),
	}, nil
}

func (c *Context) Build() error {
	lan := c.Request.LAN(LANName)
	lan.BestEffort = true
	lan.VlanTagging = true
	lan.LinkMultiplexing = true

	log := logger.WithFields(logrus.Fields{
		"variant":    c.Params.Variant().String(),
		"sharedVlan": c.Params.SharedVlanName,
	})
	if gateway := c.Plan.Gateway(); gateway != nil {
		log = log.WithField("gateway", gateway.String())
	}

	for i := 0; i < c.Params.NodeCount; i++ {
		node := c.Request.RawPC(fmt.Sprintf("node%d", i))
		node.HardwareType = c.Params.PhysType
		node.DiskImage = c.Params.OSImage

		ip, err := c.Plan.Next()
		if err != nil {
			return fmt.Errorf("failed to allocate address for %s: %w", node.Name, err)
		}

		iface := node.AddInterface()
		iface.AddAddress(models.IPv4Address(ip.String(), c.Plan.Netmask()))

		lan.AddInterface(iface)
		lan.ConnectSharedVlan(c.Params.SharedVlanName)

		node.AddService(models.Execute{Shell: ClientShell, Command: ClientCommand})

		log.WithFields(logrus.Fields{"node": node.Name, "address": ip.String()}).Debug("node added")
	}

	return nil
}

// Generate runs a full pass and returns either a complete request or an error.
func Generate(params models.Parameters) (*models.Request, error) {
	gctx, err := NewContext(params)
	if err != nil {
		return nil, err
	}

	if err := gctx.Build(); err != nil {
		return nil, err
	}

	return gctx.Request, nil
}
