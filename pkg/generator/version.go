package generator

import (
	"github.com/Masterminds/semver/v3"

	"github.com/matzehuels/create-importmap/pkg/packagejson"
)

// checkVersion warns when the installed version of p does not satisfy the
// range importer declares for it. Ranges semver cannot parse (tags, git URLs,
// "workspace:" and "file:" specs, npm aliases) are not checked.
func (g *generator) checkVersion(importer *packagejson.Manifest, p pkg) {
	declared, ok := importer.DeclaredRange(p.name)
	if !ok || declared == "" || p.manifest.Version == "" {
		return
	}
	constraint, err := semver.NewConstraint(declared)
	if err != nil {
		g.logger.Debug("unchecked version range", "name", p.name, "range", declared)
		return
	}
	installed, err := semver.NewVersion(p.manifest.Version)
	if err != nil {
		g.logger.Debug("unparsable installed version", "name", p.name, "version", p.manifest.Version)
		return
	}
	if !constraint.Check(installed) {
		g.logger.Warn("installed version does not satisfy declared range",
			"name", p.name, "version", installed.String(), "range", declared)
	}
}
