// Package config holds the knitgraph configuration tree, its defaults and
// the viper/YAML loaders.
//
// Precedence (highest first): KNITGRAPH_* environment variables, the config
// file, Default(). Keys nest with '.', which maps to '_' in the environment:
// builder.stitch_width is KNITGRAPH_BUILDER_STITCH_WIDTH.
package config
