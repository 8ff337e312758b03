// Package services implements the driving ports of the dossier
// pipeline: ingest, retrieval, answering and generation. Each service
// orchestrates driven ports and holds no provider-specific logic.
package services
