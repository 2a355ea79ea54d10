package models

type ParameterType string

const (
	IntegerParameter ParameterType = "integer"
	ImageParameter   ParameterType = "image"
	StringParameter  ParameterType = "string"
	ListParameter    ParameterType = "list"
)

type ParameterDefinition struct {
	Name            string        `yaml:"name"`
	Description     string        `yaml:"description"`
	Type            ParameterType `yaml:"type"`
	Default         any           `yaml:"default"`
	Options         []Image       `yaml:"options,omitempty"`
	Advanced        bool          `yaml:"advanced,omitempty"`
	LongDescription string        `yaml:"longDescription,omitempty"`
}

func Definitions() []ParameterDefinition {
	defaults := DefaultParameters()

	return []ParameterDefinition{
		{
			Name:        "nodeCount",
			Description: "Number of Nodes",
			Type:        IntegerParameter,
			Default:     defaults.NodeCount,
		},
		{
			Name:        "osImage",
			Description: "Select OS image",
			Type:        ImageParameter,
			Default:     defaults.OSImage,
			Options:     AvailableImages,
		},
		{
			Name:        "phystype",
			Description: "Optional physical node type",
			Type:        StringParameter,
			Default:     defaults.PhysType,
			LongDescription: "Specify a single physical node type (pc3000,d710,etc) " +
				"instead of letting the resource mapper choose for you.",
		},
		{
			Name:        "sharedVlanName",
			Description: "Shared VLAN Name",
			Type:        StringParameter,
			Default:     defaults.SharedVlanName,
			Advanced:    true,
			LongDescription: "A shared VLAN name (functions as a private key allowing other experiments " +
				"to connect to this node/VLAN). Must be fewer than 32 alphanumeric characters.",
		},
		{
			Name:        "sharedVlanAddress",
			Description: "Shared VLAN IP Address",
			Type:        StringParameter,
			Default:     defaults.SharedVlanAddress,
			Advanced:    true,
			LongDescription: "Set the IP address for the shared VLAN interface. Make sure to use an unused " +
				"address within the subnet of an existing shared vlan!",
		},
		{
			Name:            "sharedVlanNetmask",
			Description:     "Shared VLAN Netmask",
			Type:            StringParameter,
			Default:         defaults.SharedVlanNetmask,
			Advanced:        true,
			LongDescription: "Set the subnet mask for the shared VLAN interface, as a dotted quad.",
		},
		{
			Name:        "sharedVlanNetwork",
			Description: "Shared VLAN Network",
			Type:        StringParameter,
			Default:     defaults.SharedVlanNetwork,
			Advanced:    true,
			LongDescription: "Set the shared VLAN subnet in CIDR notation. When set, node addresses are " +
				"allocated from it in order, after the first host address which is left to the gateway.",
		},
		{
			Name:            "reservedAddresses",
			Description:     "Reserved Shared VLAN Addresses",
			Type:            ListParameter,
			Default:         defaults.ReservedAddresses,
			Advanced:        true,
			LongDescription: "Addresses of the shared VLAN subnet already in use by other experiments.",
		},
	}
}
