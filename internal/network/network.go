package network

import (
	"errors"
	"fmt"
	"net"

	"github.com/apparentlymart/go-cidr/cidr"
	"github.com/kkanellis/cloudlab-nfs-client/internal/models"
	"github.com/kkanellis/cloudlab-nfs-client/pkg/utils"
)

var (
	ErrAddressSpaceExhausted = errors.New("address space exhausted")
	ErrInvalidAddress        = errors.New("invalid ipv4 address")
	ErrInvalidNetwork        = errors.New("invalid ipv4 network")
)

// Plan hands out shared VLAN addresses to nodes.
type Plan interface {
	Netmask() string
	Gateway() net.IP
	Next() (net.IP, error)
}

func NewPlan(params models.Parameters) (Plan, error) {
	if params.Variant() == models.CIDRAddressing {
		plan, err := NewCIDRPlan(params.SharedVlanNetwork, params.ReservedAddresses)
		if err != nil {
			return nil, err
		}
		return plan, nil
	}

	plan, err := NewStaticPlan(params.SharedVlanAddress, params.SharedVlanNetmask)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// HostSequence walks the host addresses of an IPv4 network in ascending
// order, skipping the network and broadcast addresses. It cannot be rewound.
type HostSequence struct {
	next net.IP
	last net.IP
	done bool
}

func NewHostSequence(network *net.IPNet) *HostSequence {
	if cidr.AddressCount(network) <= 2 {
		return &HostSequence{done: true}
	}

	first, last := cidr.AddressRange(network)

	return &HostSequence{
		next: cidr.Inc(first),
		last: cidr.Dec(last),
	}
}

func (s *HostSequence) Next() (net.IP, error) {
	if s.done {
		return nil, ErrAddressSpaceExhausted
	}

	ip := s.next
	if ip.Equal(s.last) {
		s.done = true
	} else {
		s.next = cidr.Inc(ip)
	}

	return ip, nil
}

type StaticPlan struct {
	address net.IP
	netmask string
}

// NewStaticPlan returns a plan that gives every node the same address.
func NewStaticPlan(address, netmask string) (*StaticPlan, error) {
	ip := utils.ParseIPv4(address)
	if ip == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}

	if utils.ParseIPv4(netmask) == nil {
		return nil, fmt.Errorf("%w: netmask %q", ErrInvalidAddress, netmask)
	}

	return &StaticPlan{address: ip, netmask: netmask}, nil
}

func (p *StaticPlan) Netmask() string {
	return p.netmask
}

func (p *StaticPlan) Gateway() net.IP {
	return nil
}

// TODO: draw from a HostSequence once the shared VLAN owners confirm
// that distinct per-node addresses are wanted for the static variant.
func (p *StaticPlan) Next() (net.IP, error) {
	return p.address, nil
}

type CIDRPlan struct {
	network  *net.IPNet
	gateway  net.IP
	reserved []net.IP
	hosts    *HostSequence
}

// NewCIDRPlan parses network and consumes its first host address as the
// gateway. Reserved addresses are skipped when nodes draw addresses.
func NewCIDRPlan(network string, reserved []string) (*CIDRPlan, error) {
	ip, ipNet, err := net.ParseCIDR(network)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidNetwork, err)
	}

	if ip.To4() == nil {
		return nil, fmt.Errorf("%w: %q is not ipv4", ErrInvalidNetwork, network)
	}

	if !ip.Equal(ipNet.IP) {
		return nil, fmt.Errorf("%w: %q has host bits set", ErrInvalidNetwork, network)
	}

	reservedIPs := make([]net.IP, 0, len(reserved))
	for _, address := range reserved {
		reservedIP := utils.ParseIPv4(address)
		if reservedIP == nil {
			return nil, fmt.Errorf("%w: reserved %q", ErrInvalidAddress, address)
		}

		reservedIPs = append(reservedIPs, reservedIP)
	}

	hosts := NewHostSequence(ipNet)

	gateway, err := hosts.Next()
	if err != nil {
		return nil, fmt.Errorf("failed to reserve gateway in %s: %w", network, err)
	}

	return &CIDRPlan{
		network:  ipNet,
		gateway:  gateway,
		reserved: reservedIPs,
		hosts:    hosts,
	}, nil
}

func (p *CIDRPlan) Netmask() string {
	return utils.DottedQuad(p.network.Mask)
}

func (p *CIDRPlan) Gateway() net.IP {
	return p.gateway
}

func (p *CIDRPlan) Next() (net.IP, error) {
	for {
		ip, err := p.hosts.Next()
		if err != nil {
			return nil, err
		}

		if utils.ContainsIP(p.reserved, ip) {
			continue
		}

		return ip, nil
	}
}
