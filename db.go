package prefcenter

type Database interface {
	Open() error
	Close() error
}
