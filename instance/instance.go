// Package instance holds the verifier-chosen public instance that binds a
// proving session to one verification context (spec §3).
package instance

// Public is chosen by the verifier before a proving run and communicated to
// the prover out of band; it binds the resulting proof to this context.
type Public struct {
	DomainTag [32]byte
	InputSHA  [32]byte
}
