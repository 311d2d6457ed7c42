package main

// Message constants
const (
	MsgRootShort = "Initialize a Blender add-on project from the development template"
	MsgRootLong  = `blender-init fetches the Blender add-on development template and
initializes it in the current directory with your add-on name.

Every occurrence of the template's placeholder name is replaced with the
name you provide, in file paths and file contents alike. Existing files
are never overwritten unless --force is given; a single collision aborts
the whole run before anything is written.`

	MsgFlagMaintainer = "Maintainer name, replaces the maintainer placeholder in the manifest"
	MsgFlagForce      = "Overwrite existing files if they exist"
	MsgFlagDryRun     = "Preview the files that would be written without writing them"
	MsgFlagVerbose    = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"

	MsgDownloading = "Downloading template..."
	MsgScaffolding = "Writing template files..."
	MsgDone        = "Done. Your add-on template has been written into the current directory."
	MsgDryRunDone  = "Dry run complete, nothing was written."
	MsgConflicts   = "The following paths already exist in the current directory and would be overwritten:"
	MsgConflictFix = "Aborting. Run in an empty directory, remove the conflicting files, or pass --force."
)
