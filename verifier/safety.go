package verifier

import (
	"bytes"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/HeyBatlle1/tos-salad/model"
)

// The safety scan is a pattern-matching filter over bytes and strings. It
// never executes or renders untrusted content. Any single flag flips the
// verdict to WARNING_DETECTED; each match is additive evidence, not proof.

const (
	maxHostnameLength  = 60
	entropyThreshold   = 3.8
	entropyMinLength   = 10
	scriptScanWindow   = 4096
	phishingMinMatches = 2
)

var shortenerDomains = map[string]bool{
	"bit.ly":      true,
	"tinyurl.com": true,
	"goo.gl":      true,
	"t.co":        true,
	"ow.ly":       true,
	"is.gd":       true,
	"buff.ly":     true,
	"rebrand.ly":  true,
}

var ipLiteralHost = regexp.MustCompile(`^\d{1,3}(\.\d{1,3}){3}$`)

var phishingKeywords = []string{
	"login", "signin", "verify", "secure", "account", "update",
	"confirm", "password", "bank", "wallet", "suspended", "urgent",
}

// Magic-byte signatures for types we refuse to trust from extensions alone.
var dangerousSignatures = []struct {
	prefix []byte
	name   string
}{
	{[]byte{0x4D, 0x5A}, "Windows executable (MZ)"},
	{[]byte{0x7F, 0x45, 0x4C, 0x46}, "ELF executable"},
	{[]byte{0xCF, 0xFA, 0xED, 0xFE}, "Mach-O executable"},
	{[]byte{0xFE, 0xED, 0xFA, 0xCE}, "Mach-O executable"},
	{[]byte("#!"), "script with shebang"},
}

var scriptMarkers = []string{
	"<script",
	"javascript:",
	"vbscript:",
	"powershell",
	"cmd.exe",
	"eval(",
}

// scanURL inspects a URL string for phishing and obfuscation patterns.
func scanURL(rawURL string) model.ModuleResult {
	res := model.ModuleResult{Module: model.ModuleSafety}
	safety := &model.SafetyResult{Target: model.InputURL}
	res.Safety = safety

	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Hostname() == "" || (u.Scheme != "http" && u.Scheme != "https") {
		safety.Verdict = model.SafetyInvalidURL
		return res
	}

	host := strings.ToLower(u.Hostname())
	safety.Domain = host

	if len(host) > maxHostnameLength {
		safety.Flags = append(safety.Flags,
			fmt.Sprintf("overlong hostname (%d characters)", len(host)))
	}
	if shortenerDomains[host] {
		safety.Flags = append(safety.Flags, "known URL shortener domain: "+host)
	}
	if ipLiteralHost.MatchString(host) {
		safety.Flags = append(safety.Flags, "IP-literal host instead of a domain name")
	}
	if label := domainLabel(host); len(label) >= entropyMinLength {
		if e := shannonEntropy(label); e > entropyThreshold {
			safety.Flags = append(safety.Flags,
				fmt.Sprintf("high-entropy domain label %q (%.2f bits/char)", label, e))
		}
	}
	if matched := matchPhishingKeywords(strings.ToLower(rawURL)); len(matched) >= phishingMinMatches {
		safety.Flags = append(safety.Flags,
			"phishing-style keyword pattern: "+strings.Join(matched, ", "))
	}

	safety.Verdict = model.SafetySafe
	if len(safety.Flags) > 0 {
		safety.Verdict = model.SafetyWarning
	}
	return res
}

// scanFile sniffs the buffer's real type from magic bytes and scans the
// leading bytes for embedded script markers. File extensions are not
// trusted.
func scanFile(filename string, data []byte) model.ModuleResult {
	res := model.ModuleResult{Module: model.ModuleSafety}
	safety := &model.SafetyResult{Target: model.InputFile}
	res.Safety = safety

	if len(data) == 0 {
		res.Error = "empty input buffer"
		safety.Verdict = model.SafetySafe
		return res
	}

	for _, sig := range dangerousSignatures {
		if bytes.HasPrefix(data, sig.prefix) {
			safety.DetectedType = sig.name
			safety.Flags = append(safety.Flags, "dangerous executable-like type: "+sig.name)
			break
		}
	}
	if safety.DetectedType == "" {
		safety.DetectedType = http.DetectContentType(data)
	}

	window := data
	if len(window) > scriptScanWindow {
		window = window[:scriptScanWindow]
	}
	lower := strings.ToLower(string(window))
	for _, marker := range scriptMarkers {
		if strings.Contains(lower, marker) {
			safety.Flags = append(safety.Flags, "embedded script marker found: "+marker)
		}
	}

	if ext := strings.ToLower(filename); strings.HasSuffix(ext, ".exe") ||
		strings.HasSuffix(ext, ".bat") || strings.HasSuffix(ext, ".scr") {
		safety.Flags = append(safety.Flags, "executable file extension: "+filename)
	}

	safety.Verdict = model.SafetySafe
	if len(safety.Flags) > 0 {
		safety.Verdict = model.SafetyWarning
	}
	return res
}

// domainLabel returns the registrable label of a hostname, the part most
// likely to be randomized by generated domains.
func domainLabel(host string) string {
	parts := strings.Split(host, ".")
	if len(parts) < 2 {
		return host
	}
	return parts[len(parts)-2]
}

func shannonEntropy(s string) float64 {
	if s == "" {
		return 0
	}
	freq := make(map[rune]float64)
	for _, r := range s {
		freq[r]++
	}
	n := float64(len([]rune(s)))
	var entropy float64
	for _, count := range freq {
		p := count / n
		entropy -= p * math.Log2(p)
	}
	return entropy
}

func matchPhishingKeywords(lowerURL string) []string {
	var matched []string
	for _, kw := range phishingKeywords {
		if strings.Contains(lowerURL, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}
