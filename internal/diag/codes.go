package diag

import (
	"fmt"
	"strconv"
	"strings"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Code checks
	PrintUsed            Code = 1
	InvalidCommit        Code = 2
	SQLInjection         Code = 3
	AddonsRelativeImport Code = 4
	ExceptionWarning     Code = 5
	MethodCompute        Code = 6
	MethodRequiredSuper  Code = 7
	TranslationFString   Code = 8

	// Manifest checks
	ManifestRequiredKey      Code = 9
	LicenseAllowed           Code = 10
	ManifestVersionFormat    Code = 11
	ManifestAuthorString     Code = 12
	ManifestRequiredAuthor   Code = 13
	DevelopmentStatusAllowed Code = 14
)

var (
	codeDescription = map[Code]string{
		UnknownCode:              "unknown",
		PrintUsed:                "print-used",
		InvalidCommit:            "invalid-commit",
		SQLInjection:             "sql-injection",
		AddonsRelativeImport:     "odoo-addons-relative-import",
		ExceptionWarning:         "odoo-exception-warning",
		MethodCompute:            "method-compute",
		MethodRequiredSuper:      "method-required-super",
		TranslationFString:       "translation-fstring-interpolation",
		ManifestRequiredKey:      "manifest-required-key",
		LicenseAllowed:           "license-allowed",
		ManifestVersionFormat:    "manifest-version-format",
		ManifestAuthorString:     "manifest-author-string",
		ManifestRequiredAuthor:   "manifest-required-author",
		DevelopmentStatusAllowed: "development-status-allowed",
	}
)

const codePrefix = "OCA"

// Codes lists every registered code in ascending order.
func Codes() []Code {
	out := make([]Code, 0, len(codeDescription)-1)
	for c := PrintUsed; c <= DevelopmentStatusAllowed; c++ {
		out = append(out, c)
	}
	return out
}

func (c Code) ID() string {
	if _, ok := codeDescription[c]; !ok || c == UnknownCode {
		return codePrefix + "000"
	}
	return fmt.Sprintf("%s%03d", codePrefix, int(c))
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return c.ID()
}

// ParseCode accepts the stable identifier ("OCA007") or the symbolic title
// ("method-required-super").
func ParseCode(s string) (Code, bool) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(strings.ToUpper(s), codePrefix); ok {
		n, err := strconv.Atoi(rest)
		if err != nil || len(rest) != 3 {
			return UnknownCode, false
		}
		c := Code(n)
		if _, known := codeDescription[c]; !known || c == UnknownCode {
			return UnknownCode, false
		}
		return c, true
	}
	for c, title := range codeDescription {
		if c != UnknownCode && title == s {
			return c, true
		}
	}
	return UnknownCode, false
}
