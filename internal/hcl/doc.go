// Package hcl provides the concrete HCL implementation of the config.Loader
// interface. Settings files are decoded with gohcl against an evaluation
// context exposing the process environment as `env` and the settings file's
// directory as `config_dir`, so a file may say:
//
//	compiler {
//	  path    = "${env.VULKAN_SDK}/Bin/glslc"
//	  resolve = "fixed"
//	}
package hcl
