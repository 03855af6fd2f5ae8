package dswe

import (
	"fmt"
	"sort"
)

// DiagnosticCode is the sum of the passed test weights. Each test owns one
// decimal digit (1, 10, 100, 1000, 10000), not one bit: reclassification
// tables are keyed on the decimal form.
type DiagnosticCode int16

const (
	// DiagnosticFill marks a pixel that could not be evaluated.
	DiagnosticFill DiagnosticCode = -9999
	// CloudSentinel replaces the diagnostic code of cloud and shadow pixels.
	CloudSentinel DiagnosticCode = 11999
)

// Test identifies one of the five diagnostic tests.
type Test int

const (
	TestMNDWI Test = iota
	TestMBSR
	TestAWEsh
	TestPSW1
	TestPSW2
)

var testWeights = [...]DiagnosticCode{1, 10, 100, 1000, 10000}

var testNames = [...]string{"mndwi", "mbsr", "awesh", "psw1", "psw2"}

// Weight is the amount a passed test adds to the diagnostic code.
func (t Test) Weight() DiagnosticCode {
	return testWeights[t]
}

func (t Test) String() string {
	if t < 0 || int(t) >= len(testNames) {
		return "unknown"
	}
	return testNames[t]
}

// Tests lists the five tests in weight order.
func Tests() []Test {
	return []Test{TestMNDWI, TestMBSR, TestAWEsh, TestPSW1, TestPSW2}
}

// Passed reports whether test t contributed to d.
func (d DiagnosticCode) Passed(t Test) bool {
	if !d.Valid() {
		return false
	}
	return (int(d)/int(t.Weight()))%10 == 1
}

// Valid reports whether d is one of the 32 codes the tests can produce.
func (d DiagnosticCode) Valid() bool {
	if d < 0 || d > 11111 {
		return false
	}
	for v := int(d); v > 0; v /= 10 {
		if v%10 > 1 {
			return false
		}
	}
	return true
}

// String renders the code zero padded to five digits, e.g. "00101".
func (d DiagnosticCode) String() string {
	if d == DiagnosticFill {
		return "fill"
	}
	if d == CloudSentinel {
		return "cloud"
	}
	return fmt.Sprintf("%05d", int(d))
}

// AllDiagnosticCodes enumerates every code the tests can produce, ascending.
func AllDiagnosticCodes() []DiagnosticCode {
	codes := make([]DiagnosticCode, 0, 32)
	for mask := 0; mask < 32; mask++ {
		var code DiagnosticCode
		for i, t := range Tests() {
			if mask&(1<<i) != 0 {
				code += t.Weight()
			}
		}
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// RunTests evaluates the five tests on a pixel whose indices are valid.
func RunTests(b BandSample, idx Indexes, cfg ThresholdConfig) DiagnosticCode {
	var code DiagnosticCode
	if idx.MNDWI > cfg.WIGT {
		code += TestMNDWI.Weight()
	}
	if idx.MBSRV > idx.MBSRN {
		code += TestMBSR.Weight()
	}
	if idx.AWEsh > cfg.AWGT {
		code += TestAWEsh.Weight()
	}
	if psw1(b, idx, cfg) {
		code += TestPSW1.Weight()
	}
	if psw2(b, idx, cfg) {
		code += TestPSW2.Weight()
	}
	return code
}

func psw1(b BandSample, idx Indexes, cfg ThresholdConfig) bool {
	pass := idx.MNDWI > cfg.PSW1MNDWI && b.B4 < cfg.PSW1NIR && b.B5 < cfg.PSW1SWIR1
	if cfg.Version == VersionESPAv2 {
		pass = pass && idx.NDVI < cfg.PSW1NDVI
	}
	return pass
}

func psw2(b BandSample, idx Indexes, cfg ThresholdConfig) bool {
	pass := idx.MNDWI > cfg.PSW2MNDWI && b.B4 < cfg.PSW2NIR && b.B7 < cfg.PSW2SWIR2
	if cfg.Version == VersionESPAv2 {
		pass = pass && b.B1 < cfg.PSW2Blue && b.B5 < cfg.PSW2SWIR1
	}
	return pass
}
