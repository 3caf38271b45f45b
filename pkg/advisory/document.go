package advisory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/chainguard-dev/clog"
	"github.com/hashicorp/go-version"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/lockaudit/lockaudit/pkg/cvss"
	"github.com/lockaudit/lockaudit/pkg/internal/errorhelpers"
	"github.com/lockaudit/lockaudit/pkg/semver"
	"github.com/lockaudit/lockaudit/pkg/vuln"
)

// SchemaVersion is the latest known schema version for advisory documents.
// Lockaudit can only operate on documents that use a schema version that is
// equal to or earlier than this version and that is not earlier than this
// version's MAJOR number.
const SchemaVersion = "1.0.1"

// Document is the on-disk YAML form of a single advisory. Documents are
// validated and compiled into Advisory values at load time; nothing operates
// on a Document after that.
type Document struct {
	SchemaVersion string    `yaml:"schema-version"`
	ID            string    `yaml:"id"`
	Package       PackageID `yaml:"package"`
	Title         string    `yaml:"title,omitempty"`
	Description   string    `yaml:"description,omitempty"`
	Aliases       []string  `yaml:"aliases,omitempty"`
	Date          Date      `yaml:"date"`
	Withdrawn     *Date     `yaml:"withdrawn,omitempty"`

	// Patched and Unaffected are range expressions per pkg/semver, e.g.
	// ">=1.2.3" or ">=2.0.0, <2.4.1".
	Patched    []string `yaml:"patched,omitempty"`
	Unaffected []string `yaml:"unaffected,omitempty"`

	CVSS          string   `yaml:"cvss,omitempty"`
	Severity      string   `yaml:"severity,omitempty"`
	References    []string `yaml:"references,omitempty"`
	Informational string   `yaml:"informational,omitempty"`
}

// DecodeDocument reads a single advisory document from r. Unknown fields are
// rejected.
func DecodeDocument(r io.Reader) (*Document, error) {
	doc := &Document{}
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	err := decoder.Decode(doc)
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// Validate returns an error describing every problem with the document. A
// malformed version range is a validation failure; a malformed CVSS vector
// is not, since scoring degrades gracefully.
func (doc Document) Validate() error {
	return errorhelpers.LabelError(doc.ID,
		errors.Join(
			doc.ValidateSchemaVersion(),
			vuln.ValidateID(doc.ID),
			doc.Package.Validate(),
			doc.validateDate(),
			doc.validateAliases(),
			validateRanges("patched", doc.Patched),
			validateRanges("unaffected", doc.Unaffected),
			doc.validateSeverity(),
			doc.validateInformational(),
		),
	)
}

func (doc Document) ValidateSchemaVersion() error {
	docSchemaVersion, err := version.NewVersion(doc.SchemaVersion)
	if err != nil {
		return err
	}

	currentSchemaVersion, err := version.NewVersion(SchemaVersion)
	if err != nil {
		return err
	}

	if docSchemaVersion.GreaterThan(currentSchemaVersion) {
		return fmt.Errorf("document schema version %q is newer than the latest known schema version %q; if %q is supported by a later version of lockaudit, please update lockaudit and try this again", doc.SchemaVersion, SchemaVersion, doc.SchemaVersion)
	}

	// Document schema version also can't be earlier than the current schema version's MAJOR number.
	currentMajorNumber := currentSchemaVersion.Segments()[0]
	docMajorNumber := docSchemaVersion.Segments()[0]
	if docMajorNumber < currentMajorNumber {
		return fmt.Errorf("document schema version %q is too old to operate on with this version of lockaudit, document must use at least schema version \"%d\"", doc.SchemaVersion, currentMajorNumber)
	}

	return nil
}

func (p PackageID) Validate() error {
	var errs []error

	if p.Ecosystem == "" {
		errs = append(errs, fmt.Errorf("package ecosystem must not be empty"))
	}
	if p.Name == "" {
		errs = append(errs, fmt.Errorf("package name must not be empty"))
	}

	return errorhelpers.LabelError("package", errors.Join(errs...))
}

func (doc Document) validateDate() error {
	if doc.Date.IsZero() {
		return fmt.Errorf("date must not be empty")
	}

	if doc.Withdrawn != nil && doc.Withdrawn.IsZero() {
		return fmt.Errorf("withdrawn must not be empty when present")
	}

	return nil
}

func (doc Document) validateAliases() error {
	var errs []error

	errs = append(errs, validateNoDuplicates(doc.Aliases))

	for _, alias := range doc.Aliases {
		errs = append(errs,
			vuln.ValidateID(alias),
			validateAliasIsNotAdvisoryID(alias, doc.ID),
		)
	}

	return errorhelpers.LabelError("aliases", errors.Join(errs...))
}

func (doc Document) validateSeverity() error {
	if doc.Severity == "" {
		return nil
	}

	_, err := cvss.ParseSeverity(doc.Severity)
	return errorhelpers.LabelError("severity", err)
}

func (doc Document) validateInformational() error {
	switch Informational(doc.Informational) {
	case "", InformationalUnmaintained, InformationalUnsound, InformationalNotice:
		return nil
	}

	return fmt.Errorf("informational must be one of %q, %q, %q", InformationalUnmaintained, InformationalUnsound, InformationalNotice)
}

func validateRanges(label string, exprs []string) error {
	return errorhelpers.LabelError(label,
		errors.Join(lo.Map(exprs, func(expr string, _ int) error {
			_, err := semver.ParseRange(expr)
			return err
		})...),
	)
}

func validateNoDuplicates(items []string) error {
	seen := make(map[string]struct{}, len(items))

	for _, item := range items {
		if _, ok := seen[item]; ok {
			return fmt.Errorf("%q is duplicated", item)
		}
		seen[item] = struct{}{}
	}

	return nil
}

func validateAliasIsNotAdvisoryID(alias, id string) error {
	if alias == id {
		return fmt.Errorf("alias %q must not duplicate the advisory ID", alias)
	}

	return nil
}

// compile turns a validated document into its immutable Advisory form. A
// malformed CVSS vector is logged and dropped rather than failing the load,
// leaving the document's qualitative severity as the only severity source.
func (doc Document) compile(ctx context.Context) (Advisory, error) {
	if err := doc.Validate(); err != nil {
		return Advisory{}, err
	}

	patched, err := parseRanges(doc.Patched)
	if err != nil {
		return Advisory{}, err
	}

	unaffected, err := parseRanges(doc.Unaffected)
	if err != nil {
		return Advisory{}, err
	}

	adv := Advisory{
		ID:            doc.ID,
		Package:       doc.Package,
		Title:         doc.Title,
		Description:   doc.Description,
		Aliases:       slices.Clone(doc.Aliases),
		Published:     doc.Date.Time(),
		Patched:       patched,
		Unaffected:    unaffected,
		References:    slices.Clone(doc.References),
		Informational: Informational(doc.Informational),
	}

	if doc.Withdrawn != nil {
		withdrawn := doc.Withdrawn.Time()
		adv.Withdrawn = &withdrawn
	}

	if doc.CVSS != "" {
		vector, err := cvss.Parse(doc.CVSS)
		if err != nil {
			clog.FromContext(ctx).Warnf("advisory %s: dropping unscorable CVSS vector: %v", doc.ID, err)
		} else {
			adv.CVSS = vector
		}
	}

	if doc.Severity != "" {
		severity, err := cvss.ParseSeverity(doc.Severity)
		if err != nil {
			return Advisory{}, errorhelpers.LabelError("severity", err)
		}
		adv.Severity = severity
	}

	return adv, nil
}

func parseRanges(exprs []string) ([]semver.Range, error) {
	if len(exprs) == 0 {
		return nil, nil
	}

	ranges := make([]semver.Range, 0, len(exprs))
	for _, expr := range exprs {
		r, err := semver.ParseRange(expr)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}

	return ranges, nil
}
