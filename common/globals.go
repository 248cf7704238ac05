package common

// ImpVersion is the current compiler version as a string.
const ImpVersion string = "0.1.0"

// ImpProfileFileName is the name of Imp project profile files.
const ImpProfileFileName string = "imp.toml"

// ImpFileExt is the file extension for an Imp source file.
const ImpFileExt string = ".imp"

// ListingFileExt is the file extension for generated class listings.
const ListingFileExt string = ".j"

// DefaultOutputDir is the output directory used when none is specified.
const DefaultOutputDir string = "out"
