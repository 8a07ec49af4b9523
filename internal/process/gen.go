package process

//go:generate mockery --case underscore --output processmock --outpkg processmock --name Runner
