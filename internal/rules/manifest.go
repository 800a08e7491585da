package rules

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"ocalint/internal/config"
	"ocalint/internal/diag"
	"ocalint/internal/literal"
	"ocalint/internal/pytree"
)

// ManifestFilenames are the suffixes that mark an addon manifest.
var ManifestFilenames = []string{"__manifest__.py", "__openerp__.py"}

// RequiredManifestKeys must be present in every manifest.
var RequiredManifestKeys = []string{"name", "version", "author", "license"}

// VersionPattern is the accepted manifest version format: a known Odoo
// series followed by three numeric components.
const VersionPattern = `^(4\.2|5\.0|6\.0|6\.1|7\.0|8\.0|9\.0|10\.0|11\.0|12\.0|13\.0|14\.0|` +
	`15\.0|16\.0|17\.0|18\.0|19\.0)\.\d+\.\d+\.\d+$`

var versionRe = regexp.MustCompile(VersionPattern)

const msgAuthorString = "The author key in the manifest file must be a string (with comma separated values)"

// IsManifest reports whether filename names an addon manifest.
func IsManifest(filename string) bool {
	for _, suffix := range ManifestFilenames {
		if strings.HasSuffix(filename, suffix) {
			return true
		}
	}
	return false
}

// manifestRule validates the descriptor dict of a manifest file. All
// findings are reported on the module, i.e. at 1:0.
type manifestRule struct{ base }

func newManifestRule(cfg *config.Config, filename string, src []byte) *manifestRule {
	return &manifestRule{base: newBase(cfg, filename, src)}
}

func (r *manifestRule) Name() string { return "manifest" }

func (r *manifestRule) Module(n pytree.Node) {
	manifest, ok := literal.ManifestDict(n)
	if !ok {
		return
	}
	r.checkRequiredKeys(n, manifest)
	r.checkLicense(n, manifest)
	r.checkVersion(n, manifest)
	r.checkAuthor(n, manifest)
	r.checkDevelopmentStatus(n, manifest)
}

func (r *manifestRule) checkRequiredKeys(n pytree.Node, m *literal.Mapping) {
	for _, key := range RequiredManifestKeys {
		if !m.Has(key) {
			r.emit(diag.ManifestRequiredKey, diag.SevConvention, n,
				fmt.Sprintf("Missing required key \"%s\" in manifest file", key))
		}
	}
}

func (r *manifestRule) checkLicense(n pytree.Node, m *literal.Mapping) {
	v, ok := truthy(m, "license")
	if !ok || allowed(v, r.cfg.AllowedLicenses) {
		return
	}
	r.emit(diag.LicenseAllowed, diag.SevConvention, n,
		fmt.Sprintf("License \"%s\" not allowed in manifest file.", v))
}

func (r *manifestRule) checkVersion(n pytree.Node, m *literal.Mapping) {
	v, ok := truthy(m, "version")
	if !ok || matchVersion(v.String()) {
		return
	}
	r.emit(diag.ManifestVersionFormat, diag.SevConvention, n,
		fmt.Sprintf("Wrong Version Format \"%s\" in manifest file. Regex to match: \"%s\"", v, VersionPattern))
}

// matchVersion applies VersionPattern with Python's `$`, which also
// accepts a single trailing newline.
func matchVersion(s string) bool {
	return versionRe.MatchString(strings.TrimSuffix(s, "\n"))
}

func (r *manifestRule) checkAuthor(n pytree.Node, m *literal.Mapping) {
	v, ok := truthy(m, "author")
	if !ok {
		return
	}
	author, isStr := v.AsString()
	if !isStr {
		r.emit(diag.ManifestAuthorString, diag.SevError, n, msgAuthorString)
		return
	}
	required := r.cfg.RequiredAuthors
	if len(required) == 0 {
		return
	}
	for _, want := range required {
		if strings.Contains(author, want) {
			return
		}
	}
	r.emit(diag.ManifestRequiredAuthor, diag.SevConvention, n,
		"One of the following authors must be present in manifest: "+strings.Join(required, ", "))
}

func (r *manifestRule) checkDevelopmentStatus(n pytree.Node, m *literal.Mapping) {
	v, ok := truthy(m, "development_status")
	if !ok || allowed(v, r.cfg.AllowedStatuses) {
		return
	}
	r.emit(diag.DevelopmentStatusAllowed, diag.SevConvention, n,
		fmt.Sprintf("Manifest key development_status \"%s\" not allowed. Use one of: %s.",
			v, strings.Join(r.cfg.AllowedStatuses, ", ")))
}

// truthy returns the value stored under key when it is present and truthy.
func truthy(m *literal.Mapping, key string) (literal.Value, bool) {
	v, ok := m.Get(key)
	if !ok || !v.Truthy() {
		return literal.Value{}, false
	}
	return v, true
}

// allowed reports membership of a string value; non-strings never match.
func allowed(v literal.Value, list []string) bool {
	s, ok := v.AsString()
	return ok && slices.Contains(list, s)
}
