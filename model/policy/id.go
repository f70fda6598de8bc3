package policy

// ID used to uniquely represent a K8s NetworkPolicy.
type ID struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace"`
}

// GetID returns ID of a policy.
func GetID(policy *Policy) ID {
	if policy != nil {
		return ID{Name: policy.Name, Namespace: policy.Namespace}
	}
	return ID{}
}

func (id ID) String() string {
	return id.Namespace + "/" + id.Name
}
