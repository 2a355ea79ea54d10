package models

import "fmt"

const (
	RawPCSliverType = "raw-pc"
	IPv4AddressType = "ipv4"
)

type Request struct {
	Nodes []*Node
	LANs  []*LAN
}

func NewRequest() *Request {
	return &Request{}
}

// RawPC adds an exclusive bare-metal node to the request.
func (r *Request) RawPC(name string) *Node {
	node := &Node{
		Name:       name,
		SliverType: RawPCSliverType,
		Exclusive:  true,
	}

	r.Nodes = append(r.Nodes, node)

	return node
}

func (r *Request) LAN(name string) *LAN {
	lan := &LAN{Name: name}

	r.LANs = append(r.LANs, lan)

	return lan
}

type Node struct {
	Name         string
	SliverType   string
	Exclusive    bool
	HardwareType string
	DiskImage    string
	Interfaces   []*Interface
	Services     []Execute
}

func (n *Node) AddInterface() *Interface {
	iface := &Interface{
		Name: fmt.Sprintf("if%d", len(n.Interfaces)),
		Node: n.Name,
	}

	n.Interfaces = append(n.Interfaces, iface)

	return iface
}

func (n *Node) AddService(service Execute) {
	n.Services = append(n.Services, service)
}

type Interface struct {
	Name      string
	Node      string
	Addresses []Address
}

func (i *Interface) ClientID() string {
	return fmt.Sprintf("%s:%s", i.Node, i.Name)
}

func (i *Interface) AddAddress(address Address) {
	i.Addresses = append(i.Addresses, address)
}

type Address struct {
	Address string
	Netmask string
	Type    string
}

func IPv4Address(address, netmask string) Address {
	return Address{
		Address: address,
		Netmask: netmask,
		Type:    IPv4AddressType,
	}
}

type Execute struct {
	Shell   string
	Command string
}

type LAN struct {
	Name             string
	BestEffort       bool
	VlanTagging      bool
	LinkMultiplexing bool
	Interfaces       []*Interface
	SharedVlan       string
}

func (l *LAN) AddInterface(iface *Interface) {
	l.Interfaces = append(l.Interfaces, iface)
}

// ConnectSharedVlan binds the LAN to a shared VLAN. Binding is a property of
// the LAN, so repeated calls with the same name leave a single binding.
func (l *LAN) ConnectSharedVlan(name string) {
	l.SharedVlan = name
}

type GenerateResult struct {
	Name    string `yaml:"name"`
	Output  string `yaml:"output"`
	Nodes   int    `yaml:"nodes"`
	Variant string `yaml:"variant"`
}
