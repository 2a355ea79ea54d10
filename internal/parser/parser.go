package parser

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kkanellis/cloudlab-nfs-client/internal/models"
	"github.com/kkanellis/cloudlab-nfs-client/pkg/constants"
	"gopkg.in/yaml.v3"
)

// Parse reads every YAML parameter file under path. Keys missing from a file
// keep their default values.
func Parse(path string) ([]models.ParameterSet, error) {
	sets := make([]models.ParameterSet, 0)

	err := filepath.WalkDir(path, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		ext := filepath.Ext(path)
		if entry.IsDir() || (ext != constants.YAMLExtension && ext != constants.YMLExtension) {
			return nil
		}

		params, err := parseParameters(path)
		if err != nil {
			return fmt.Errorf("failed to parse parameters %s: %w", path, err)
		}

		sets = append(sets, models.ParameterSet{
			Name:   strings.TrimSuffix(filepath.Base(path), ext),
			Params: params,
		})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walking through directory: %w", err)
	}

	return sets, nil
}

func parseParameters(path string) (models.Parameters, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return models.Parameters{}, fmt.Errorf("failed to read file: %w", err)
	}

	params := models.DefaultParameters()
	if err := yaml.Unmarshal(content, &params); err != nil {
		return models.Parameters{}, fmt.Errorf("failed to unmarshal parameters: %w", err)
	}

	params.OSImage = models.ResolveImage(params.OSImage)

	return params, nil
}
