package domain

// TestCodeunit is a test codeunit discovered in AL source
type TestCodeunit struct {
	ID        int      // Object id from the codeunit declaration
	Name      string   // Codeunit name without quotes
	FilePath  string   // Path to the .al file declaring it
	Functions []string // [Test] procedures in declaration order
}
