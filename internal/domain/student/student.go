package student

// Student is a reminder recipient. Course, Batch, Year and Mode are the
// classification attributes matched against events when the delivery channel
// addresses recipients individually.
type Student struct {
	Name   string
	Email  string
	Course string
	Batch  string
	Year   int
	Mode   string
}
