package platform

// PermissionService exposes the runtime permission guarding a platform feature.
type PermissionService struct {
	// Permission for the feature.
	Permission Permission
}

// Permission services for the features the app asks about.
var (
	// Camera guards photo and video capture.
	Camera = &PermissionService{Permission: newBasicPermission("android.permission.CAMERA")}

	// Microphone guards audio recording.
	Microphone = &PermissionService{Permission: newBasicPermission("android.permission.RECORD_AUDIO")}

	// Phone guards placing calls.
	Phone = &PermissionService{Permission: newBasicPermission("android.permission.CALL_PHONE")}

	// Contacts guards read access to the address book.
	Contacts = &PermissionService{Permission: newBasicPermission("android.permission.READ_CONTACTS")}

	// MediaImages guards read access to images in shared storage.
	MediaImages = &PermissionService{Permission: newBasicPermission("android.permission.READ_MEDIA_IMAGES")}
)

// Services returns every permission service in a stable order.
func Services() []*PermissionService {
	return []*PermissionService{Camera, Microphone, Phone, Contacts, MediaImages}
}

// Lookup returns the permission with the given manifest identifier.
func Lookup(id string) (Permission, bool) {
	for _, s := range Services() {
		if s.Permission.ID() == id {
			return s.Permission, true
		}
	}
	return nil, false
}
