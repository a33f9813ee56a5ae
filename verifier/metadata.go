package verifier

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/HeyBatlle1/tos-salad/model"
	"github.com/rwcarlsen/goexif/exif"
)

// metadataCaveat ships with every result: embedded metadata is trivially
// forgeable, so this module's verdict alone never drives a safe/unsafe
// conclusion.
const metadataCaveat = "Embedded metadata is trivially forgeable and is not proof of origin or authenticity."

var editingSoftwareSignatures = []string{
	"photoshop",
	"lightroom",
	"gimp",
	"affinity",
	"snapseed",
	"pixelmator",
	"canva",
	"luminar",
}

// analyzeMetadata extracts embedded EXIF fields, fingerprints the exact
// bytes with SHA-256, and accumulates human-readable warnings. The verdict
// is an ordinal function of the warning count.
func analyzeMetadata(data []byte) model.ModuleResult {
	res := model.ModuleResult{Module: model.ModuleMetadata}

	sum := sha256.Sum256(data)
	fields, ok := extractExif(data)

	md := &model.MetadataResult{
		Fields:      fields,
		ContentHash: hex.EncodeToString(sum[:]),
		Caveat:      metadataCaveat,
	}

	if !ok {
		// Common after re-upload through a platform that strips metadata.
		md.Warnings = append(md.Warnings,
			"No embedded metadata found; the file may have been re-encoded or passed through a platform that strips it.")
		md.Verdict = model.MetadataNone
		res.Metadata = md
		return res
	}

	md.Warnings = evaluateFields(fields)
	md.Verdict = metadataVerdict(len(md.Warnings))
	res.Metadata = md
	return res
}

// extractExif parses EXIF from JPEG/TIFF buffers. A parse failure simply
// means no embedded metadata.
func extractExif(data []byte) (model.MetadataFields, bool) {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return model.MetadataFields{}, false
	}

	var fields model.MetadataFields

	if maker, err := x.Get(exif.Make); err == nil {
		if s, err := maker.StringVal(); err == nil {
			fields.CaptureDevice = strings.TrimSpace(s)
		}
	}
	if mdl, err := x.Get(exif.Model); err == nil {
		if s, err := mdl.StringVal(); err == nil {
			if fields.CaptureDevice != "" {
				fields.CaptureDevice += " "
			}
			fields.CaptureDevice += strings.TrimSpace(s)
		}
	}
	if ts, err := x.DateTime(); err == nil {
		fields.Timestamp = ts.UTC().Format("2006-01-02T15:04:05Z")
	}
	if lat, lng, err := x.LatLong(); err == nil && (lat != 0 || lng != 0) {
		fields.HasGPS = true
	}
	if sw, err := x.Get(exif.Software); err == nil {
		if s, err := sw.StringVal(); err == nil {
			fields.EditingSoftware = strings.TrimSpace(s)
		}
	}

	empty := fields.CaptureDevice == "" && fields.Timestamp == "" &&
		!fields.HasGPS && fields.EditingSoftware == ""
	return fields, !empty
}

// evaluateFields accumulates warnings from specific signals.
func evaluateFields(fields model.MetadataFields) []string {
	var warnings []string

	if fields.EditingSoftware != "" {
		lower := strings.ToLower(fields.EditingSoftware)
		for _, sig := range editingSoftwareSignatures {
			if strings.Contains(lower, sig) {
				warnings = append(warnings,
					"Editing software signature present: "+fields.EditingSoftware)
				break
			}
		}
	}
	if fields.HasGPS {
		// A privacy concern, not an authenticity one.
		warnings = append(warnings,
			"Embedded location data present; sharing this file may expose where it was captured.")
	}
	if fields.CaptureDevice == "" && fields.Timestamp == "" {
		warnings = append(warnings,
			"No capture device or timestamp recorded despite other metadata being present.")
	}

	return warnings
}

func metadataVerdict(warningCount int) model.MetadataVerdict {
	switch {
	case warningCount == 0:
		return model.MetadataPresent
	case warningCount < 3:
		return model.MetadataPotentialEditing
	default:
		return model.MetadataHighRisk
	}
}
