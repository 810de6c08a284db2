// Package config defines the format-agnostic project settings for
// shadersync, along with the Loader interface used to read them from a
// settings file.
//
// Settings are layered: Default() is overridden by a settings file, which is
// in turn overridden by explicit command-line flags. Concrete loaders, such
// as for HCL, are provided in separate packages and selected by file
// extension through a FileLoader.
package config
