// Package backup exposes the store as downloadable JSON and CSV files and
// stages uploaded JSON backups as pending restores.
package backup
