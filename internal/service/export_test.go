package service

// SetCodeGenerator overrides recovery code generation so tests can use a
// known code.
func SetCodeGenerator(s *RecoveryService, fn func() (string, error)) {
	s.generateCode = fn
}
