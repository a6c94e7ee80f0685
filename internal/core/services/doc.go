// Package services implements the driving ports: document loading,
// question answering, quiz generation and scoring, history, settings,
// Google Classroom browsing and material import.
//
// Services depend only on domain types and the driven port interfaces.
package services
