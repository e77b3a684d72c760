package app_info

// NAME the name of this application
const NAME = "port-explorer"

// VERSION the current version of this application
const VERSION = "v1.2.0"
