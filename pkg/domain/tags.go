package domain

// Tag keys and values stamped on every resource this system creates. The
// CreatedBy marker is the ownership tag: retention and duplicate-discovery
// queries filter on it so unrelated resources in the account are never
// touched.
const (
	TagCreatedBy      = "CreatedBy"
	TagSourceInstance = "SourceInstance"
	TagSourceSnapshot = "SourceSnapshot"
	TagSourceRegion   = "SourceRegion"
	TagBackupDate     = "BackupDate"
	TagName           = "Name"

	CreatedByBackup  = "SmartVault"
	CreatedByRestore = "SmartVaultRestore"
)

// BackupDateLayout is the value format of TagBackupDate.
const BackupDateLayout = "2006-01-02"
