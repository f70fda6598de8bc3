package endpoints

// ID used to uniquely represent K8s Endpoints. Endpoints share the ID with
// the service they back.
type ID struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace"`
}

// GetID returns ID of endpoints.
func GetID(eps *Endpoints) ID {
	if eps != nil {
		return ID{Name: eps.Name, Namespace: eps.Namespace}
	}
	return ID{}
}

func (id ID) String() string {
	return id.Namespace + "/" + id.Name
}
