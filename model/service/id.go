package service

// ID used to uniquely represent a K8s Service.
type ID struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace"`
}

// GetID returns ID of a service.
func GetID(service *Service) ID {
	if service != nil {
		return ID{Name: service.Name, Namespace: service.Namespace}
	}
	return ID{}
}

func (id ID) String() string {
	return id.Namespace + "/" + id.Name
}
