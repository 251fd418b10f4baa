// Package awsorg ingests the accounts of an AWS Organization into the catalog.
//
// A Processor owns locations of type "aws-organization". Reading one lists every
// account through the Organizations ListAccounts API, following NextToken until
// the last page, and only then maps each account to a Component entity:
//
//	apiVersion: backstage.io/v1alpha1
//	kind: Component
//	metadata:
//	  name: <slug of the account name>
//	  namespace: default
//	  annotations:
//	    amazonaws.com/arn: arn:aws:organizations::123:account/o-abc123/111122223333
//	    amazonaws.com/account-id: "111122223333"
//	    amazonaws.com/organization-id: o-abc123
//	spec:
//	  type: cloud-account
//	  lifecycle: unknown
//	  owner: unknown
//
// Listing is sequential and is never retried here. If any page fails, the read
// fails and nothing is emitted.
package awsorg
