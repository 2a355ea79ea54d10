package models

import (
	"strings"

	"github.com/samber/lo"
)

const (
	DefaultNodeCount         = 1
	DefaultSharedVlanName    = "kkanellis-nfs-tiering"
	DefaultSharedVlanAddress = "10.254.254.1"
	DefaultSharedVlanNetmask = "255.255.255.0"
)

type Image struct {
	URN   string `yaml:"urn"`
	Label string `yaml:"label"`
}

// Only Ubuntu images are supported by the client script.
var AvailableImages = []Image{
	{URN: "urn:publicid:IDN+emulab.net+image+emulab-ops//UBUNTU22-64-STD", Label: "UBUNTU 22.04"},
	{URN: "urn:publicid:IDN+emulab.net+image+emulab-ops//UBUNTU20-64-STD", Label: "UBUNTU 20.04"},
}

// ResolveImage maps an image label to its URN. Unknown values are returned unchanged.
func ResolveImage(value string) string {
	image, ok := lo.Find(AvailableImages, func(image Image) bool {
		return strings.EqualFold(image.Label, value)
	})
	if !ok {
		return value
	}

	return image.URN
}

type AddressingVariant int

const (
	StaticAddressing AddressingVariant = iota
	CIDRAddressing
)

func (v AddressingVariant) String() string {
	switch v {
	case StaticAddressing:
		return "static"
	case CIDRAddressing:
		return "cidr"
	}
	return ""
}

type Parameters struct {
	NodeCount         int      `mapstructure:"nodeCount" yaml:"nodeCount"`
	OSImage           string   `mapstructure:"osImage" yaml:"osImage"`
	PhysType          string   `mapstructure:"phystype" yaml:"phystype"`
	SharedVlanName    string   `mapstructure:"sharedVlanName" yaml:"sharedVlanName"`
	SharedVlanAddress string   `mapstructure:"sharedVlanAddress" yaml:"sharedVlanAddress"`
	SharedVlanNetmask string   `mapstructure:"sharedVlanNetmask" yaml:"sharedVlanNetmask"`
	SharedVlanNetwork string   `mapstructure:"sharedVlanNetwork" yaml:"sharedVlanNetwork"`
	ReservedAddresses []string `mapstructure:"reservedAddresses" yaml:"reservedAddresses"`
}

func DefaultParameters() Parameters {
	return Parameters{
		NodeCount:         DefaultNodeCount,
		OSImage:           AvailableImages[0].URN,
		SharedVlanName:    DefaultSharedVlanName,
		SharedVlanAddress: DefaultSharedVlanAddress,
		SharedVlanNetmask: DefaultSharedVlanNetmask,
		ReservedAddresses: []string{},
	}
}

// Variant reports which addressing scheme the parameters select. A shared
// VLAN network takes precedence over the static address and netmask.
func (p Parameters) Variant() AddressingVariant {
	if p.SharedVlanNetwork != "" {
		return CIDRAddressing
	}
	return StaticAddressing
}

// ParameterSet is a named set of parameters, one per generated document.
type ParameterSet struct {
	Name   string
	Params Parameters
}
