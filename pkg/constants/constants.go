package constants

const (
	XMLExtension  = ".xml"
	YAMLExtension = ".yaml"
	YMLExtension  = ".yml"
)
