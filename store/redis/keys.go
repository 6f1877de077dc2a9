package redis

// Redis key naming conventions. All keys are prefixed with "n8n:" to
// avoid collisions.

const keyPrefix = "n8n:"

// workflowKey returns the key for a workflow entity: n8n:workflow:{id}
func workflowKey(id string) string { return keyPrefix + "workflow:" + id }

// workflowIDsKey is the Set tracking all workflow IDs for enumeration.
const workflowIDsKey = keyPrefix + "workflow_ids"

// credentialKey returns the key for a credential entity:
// n8n:credential:{type}:{name}
func credentialKey(credType, name string) string {
	return keyPrefix + "credential:" + credType + ":" + name
}

// credentialIDsKey is the Set tracking all credential keys for
// enumeration.
const credentialIDsKey = keyPrefix + "credential_ids"

// runKey returns the key for an execution run entity: n8n:run:{id}
func runKey(id string) string { return keyPrefix + "run:" + id }

// runIDsKey is the Set tracking all run IDs for enumeration.
const runIDsKey = keyPrefix + "run_ids"
