package batch

import (
	"crypto/rand"
	"fmt"
)

const (
	// jobNameBodyLimit truncates the <pipeline>-<step> body so the full
	// name stays under MaxJobNameLength with margin.
	jobNameBodyLimit = 55

	// jobNameSuffixLength is the length of the random suffix.
	jobNameSuffixLength = 4

	// jobNameSuffixAlphabet is the suffix alphabet. Lowercase plus digits
	// keeps names valid for Batch while staying visually unambiguous.
	jobNameSuffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// GenerateJobName produces a collision-resistant, length-bounded Batch job
// name from pipeline and step identity.
//
// The name has the form "<pipeline>-<step>" truncated to 55 characters,
// followed by "-" and a 4-character random suffix, keeping the result under
// Batch's 63-character limit. Uniqueness is best-effort: the suffix makes
// collisions unlikely, but callers must treat a service-side name collision
// as a normal failure condition.
func GenerateJobName(pipelineName, stepName string) string {
	body := fmt.Sprintf("%s-%s", pipelineName, stepName)
	if len(body) > jobNameBodyLimit {
		body = body[:jobNameBodyLimit]
	}
	return fmt.Sprintf("%s-%s", body, randomSuffix(jobNameSuffixLength))
}

func randomSuffix(length int) string {
	buf := make([]byte, length)
	// rand.Read never fails on supported platforms.
	_, _ = rand.Read(buf)
	for i, b := range buf {
		buf[i] = jobNameSuffixAlphabet[int(b)%len(jobNameSuffixAlphabet)]
	}
	return string(buf)
}
