package rspec

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kkanellis/cloudlab-nfs-client/internal/models"
	"github.com/kkanellis/cloudlab-nfs-client/pkg/constants"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

const (
	RequestType     = "request"
	LANLinkType     = "lan"
	Namespace       = "http://www.geni.net/resources/rspec/3"
	XSINamespace    = "http://www.w3.org/2001/XMLSchema-instance"
	EmulabNamespace = "http://www.protogeni.net/resources/rspec/ext/emulab/1"
	VlanNamespace   = "http://www.protogeni.net/resources/rspec/ext/shared-vlan/1"
	SchemaLocation  = "http://www.geni.net/resources/rspec/3 http://www.geni.net/resources/rspec/3/request.xsd"
)

var ErrUnknownFormat = errors.New("unknown output format")

type Format string

const (
	FormatXML  Format = "xml"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatXML:
		return FormatXML, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

func (f Format) Extension() string {
	if f == FormatYAML {
		return constants.YAMLExtension
	}
	return constants.XMLExtension
}

type document struct {
	XMLName        xml.Name `xml:"rspec" yaml:"-"`
	Xmlns          string   `xml:"xmlns,attr" yaml:"-"`
	XmlnsXSI       string   `xml:"xmlns:xsi,attr" yaml:"-"`
	XmlnsEmulab    string   `xml:"xmlns:emulab,attr" yaml:"-"`
	XmlnsVlan      string   `xml:"xmlns:sharedvlan,attr" yaml:"-"`
	SchemaLocation string   `xml:"xsi:schemaLocation,attr" yaml:"-"`
	Type           string   `xml:"type,attr" yaml:"type"`
	Nodes          []node   `xml:"node" yaml:"nodes"`
	Links          []link   `xml:"link" yaml:"links"`
}

type node struct {
	ClientID     string     `xml:"client_id,attr" yaml:"name"`
	Exclusive    bool       `xml:"exclusive,attr" yaml:"exclusive"`
	SliverType   sliverType `xml:"sliver_type" yaml:"sliverType"`
	HardwareType *named     `xml:"hardware_type,omitempty" yaml:"hardwareType,omitempty"`
	Services     *services  `xml:"services,omitempty" yaml:"services,omitempty"`
	Interfaces   []iface    `xml:"interface" yaml:"interfaces"`
}

type sliverType struct {
	Name      string `xml:"name,attr" yaml:"name"`
	DiskImage *named `xml:"disk_image,omitempty" yaml:"diskImage,omitempty"`
}

type named struct {
	Name string `xml:"name,attr" yaml:"name"`
}

type services struct {
	Execute []execute `xml:"execute" yaml:"execute"`
}

type execute struct {
	Shell   string `xml:"shell,attr" yaml:"shell"`
	Command string `xml:"command,attr" yaml:"command"`
}

type iface struct {
	ClientID string `xml:"client_id,attr" yaml:"clientId"`
	IPs      []ip   `xml:"ip" yaml:"ips"`
}

type ip struct {
	Address string `xml:"address,attr" yaml:"address"`
	Netmask string `xml:"netmask,attr" yaml:"netmask"`
	Type    string `xml:"type,attr" yaml:"type"`
}

type link struct {
	ClientID         string         `xml:"client_id,attr" yaml:"name"`
	InterfaceRefs    []interfaceRef `xml:"interface_ref" yaml:"interfaces"`
	LinkType         named          `xml:"link_type" yaml:"linkType"`
	BestEffort       *enabled       `xml:"emulab:best_effort,omitempty" yaml:"bestEffort,omitempty"`
	VlanTagging      *enabled       `xml:"emulab:vlan_tagging,omitempty" yaml:"vlanTagging,omitempty"`
	LinkMultiplexing *enabled       `xml:"emulab:link_multiplexing,omitempty" yaml:"linkMultiplexing,omitempty"`
	SharedVlan       *named         `xml:"sharedvlan:link_shared_vlan,omitempty" yaml:"sharedVlan,omitempty"`
}

type interfaceRef struct {
	ClientID string `xml:"client_id,attr" yaml:"clientId"`
}

type enabled struct {
	Enabled bool `xml:"enabled,attr" yaml:"enabled"`
}

func newDocument(request *models.Request) document {
	return document{
		Xmlns:          Namespace,
		XmlnsXSI:       XSINamespace,
		XmlnsEmulab:    EmulabNamespace,
		XmlnsVlan:      VlanNamespace,
		SchemaLocation: SchemaLocation,
		Type:           RequestType,
		Nodes:          lo.Map(request.Nodes, func(n *models.Node, _ int) node { return newNode(n) }),
		Links:          lo.Map(request.LANs, func(l *models.LAN, _ int) link { return newLink(l) }),
	}
}

func newNode(n *models.Node) node {
	result := node{
		ClientID:   n.Name,
		Exclusive:  n.Exclusive,
		SliverType: sliverType{Name: n.SliverType},
		Interfaces: lo.Map(n.Interfaces, func(i *models.Interface, _ int) iface {
			return iface{
				ClientID: i.ClientID(),
				IPs: lo.Map(i.Addresses, func(a models.Address, _ int) ip {
					return ip{Address: a.Address, Netmask: a.Netmask, Type: a.Type}
				}),
			}
		}),
	}

	if n.DiskImage != "" {
		result.SliverType.DiskImage = &named{Name: n.DiskImage}
	}

	if n.HardwareType != "" {
		result.HardwareType = &named{Name: n.HardwareType}
	}

	if len(n.Services) > 0 {
		result.Services = &services{
			Execute: lo.Map(n.Services, func(e models.Execute, _ int) execute {
				return execute{Shell: e.Shell, Command: e.Command}
			}),
		}
	}

	return result
}

func newLink(l *models.LAN) link {
	result := link{
		ClientID: l.Name,
		InterfaceRefs: lo.Map(l.Interfaces, func(i *models.Interface, _ int) interfaceRef {
			return interfaceRef{ClientID: i.ClientID()}
		}),
		LinkType: named{Name: LANLinkType},
	}

	if l.BestEffort {
		result.BestEffort = &enabled{Enabled: true}
	}

	if l.VlanTagging {
		result.VlanTagging = &enabled{Enabled: true}
	}

	if l.LinkMultiplexing {
		result.LinkMultiplexing = &enabled{Enabled: true}
	}

	if l.SharedVlan != "" {
		result.SharedVlan = &named{Name: l.SharedVlan}
	}

	return result
}

func Render(w io.Writer, request *models.Request, format Format) error {
	doc := newDocument(request)

	switch format {
	case FormatXML:
		if _, err := io.WriteString(w, xml.Header); err != nil {
			return fmt.Errorf("failed to write xml header: %w", err)
		}

		encoder := xml.NewEncoder(w)
		encoder.Indent("", "  ")

		if err := encoder.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode rspec: %w", err)
		}

		if _, err := io.WriteString(w, "\n"); err != nil {
			return fmt.Errorf("failed to write rspec: %w", err)
		}
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)

		if err := encoder.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode rspec: %w", err)
		}

		if err := encoder.Close(); err != nil {
			return fmt.Errorf("failed to close yaml encoder: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	return nil
}

func WriteFile(path string, request *models.Request, format Format) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if err := Render(file, request, format); err != nil {
		return err
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	return nil
}
